// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Span attribute keys.
const (
	ProfileMediaTypeKey = "capability.media_type"
	ProfileQualityKey   = "capability.max_video_quality"
	ProfileMobileKey    = "capability.mobile"
	ProfileLowEndKey    = "capability.low_end"
	ProfileSourceKey    = "capability.source"

	MediaAssetKey    = "media.asset"
	MediaKindKey     = "media.kind"
	MediaReasonKey   = "media.reason"
	MediaDegradedKey = "media.degraded"

	WidgetTypeKey = "widget.type"
	ScriptURLKey  = "script.url"
	ScriptOKKey   = "script.ok"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"

	HTTPMethodKey     = "http.method"
	HTTPRouteKey      = "http.route"
	HTTPStatusCodeKey = "http.status_code"
)

// HTTPAttributes carries the route pattern, never the raw URL, to keep query values
// out of spans.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int(HTTPStatusCodeKey, statusCode))
	}
	return attrs
}

func ProfileAttributes(mediaType, quality, source string, mobile, lowEnd bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ProfileMediaTypeKey, mediaType),
		attribute.String(ProfileQualityKey, quality),
		attribute.String(ProfileSourceKey, source),
		attribute.Bool(ProfileMobileKey, mobile),
		attribute.Bool(ProfileLowEndKey, lowEnd),
	}
}

func MediaAttributes(asset, kind, reason string, degraded bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(MediaAssetKey, asset),
		attribute.String(MediaKindKey, kind),
		attribute.String(MediaReasonKey, reason),
		attribute.Bool(MediaDegradedKey, degraded),
	}
}

// ScriptAttributes omits empty values.
func ScriptAttributes(widgetType, url string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if widgetType != "" {
		attrs = append(attrs, attribute.String(WidgetTypeKey, widgetType))
	}
	if url != "" {
		attrs = append(attrs, attribute.String(ScriptURLKey, url))
	}
	return attrs
}

func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
