package common

import "context"

type ctxKey string

const deviceIDKey ctxKey = "auth/device-id"

// WithDeviceID stores the authenticated device identifier on the provided context.
func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceIDKey, id)
}

// DeviceID extracts the authenticated device identifier from the context if present.
func DeviceID(ctx context.Context) (string, bool) {
	v := ctx.Value(deviceIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
