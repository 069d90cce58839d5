package interceptors

import (
	"context"
	"testing"
	"time"

	"therapyhub-menus/auth"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	publicMethod  = "/therapyhub.menus.v1.MenuService/ListMenus"
	privateMethod = "/therapyhub.menus.v1.MenuService/GetCurrentUserMenus"
)

func echoClaims(ctx context.Context, _ interface{}) (interface{}, error) {
	id, ok := GetUserTypeIDFromContext(ctx)
	if !ok {
		return "anonymous", nil
	}
	return id, nil
}

func TestAuthInterceptor(t *testing.T) {
	intercept := AuthInterceptor(publicMethod)

	t.Run("public method skips auth", func(t *testing.T) {
		got, err := intercept(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: publicMethod}, echoClaims)
		require.NoError(t, err)
		assert.Equal(t, "anonymous", got)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := intercept(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, echoClaims)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("bad header", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Token abc"))
		_, err := intercept(ctx, nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, echoClaims)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := auth.GenerateToken(1, 2, 3, time.Hour)
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

		got, err := intercept(ctx, nil, &grpc.UnaryServerInfo{FullMethod: privateMethod}, echoClaims)
		require.NoError(t, err)
		assert.Equal(t, uint(3), got)
	})
}

func TestInterceptorLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := InterceptorLogger(zap.New(core))

	l.Log(context.Background(), logging.LevelWarn, "finished call", "grpc.code", "NotFound", "dangling")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "NotFound", entry.ContextMap()["grpc.code"])
}

func TestRequestIDFields(t *testing.T) {
	assert.Nil(t, requestIDFields(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-1"))
	assert.Equal(t, logging.Fields{"request_id", "req-1"}, requestIDFields(ctx))
}
