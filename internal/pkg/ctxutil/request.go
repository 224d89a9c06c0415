package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries caller metadata that ends up on audit rows.
type RequestData struct {
	RequestID string
	IPAddress string
	Actor     string
}

// WithRequestData attaches rd to ctx. A nil ctx is treated as Background.
func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if rd == nil {
		return ctx
	}
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
