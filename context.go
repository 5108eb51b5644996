package thirdparty

import (
	"context"

	"github.com/dmitrymomot/thirdparty/pkg/logger"
)

type providerNameKey struct{}

// WithProviderName stores the provider name in ctx for logging.
func WithProviderName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, providerNameKey{}, name)
}

// ProviderName returns the provider name stored by WithProviderName.
func ProviderName(ctx context.Context) string {
	name, _ := ctx.Value(providerNameKey{}).(string)
	return name
}

// ProviderExtractor adds the provider name to log records as "provider".
func ProviderExtractor() logger.ContextExtractor {
	return logger.ContextValue[string]("provider", providerNameKey{})
}
