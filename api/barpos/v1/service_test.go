package barposv1

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type balanceStub struct {
	UnimplementedBalanceServiceServer
}

func (balanceStub) ValidateAccount(_ context.Context, req *ValidateAccountRequest) (*AccountResponse, error) {
	return &AccountResponse{Account: &Account{AccessToken: req.Token, Balance: "10.00"}}, nil
}

func method(t *testing.T, desc grpc.ServiceDesc, name string) grpc.MethodDesc {
	t.Helper()
	for _, m := range desc.Methods {
		if m.MethodName == name {
			return m
		}
	}
	t.Fatalf("method %s not found in %s", name, desc.ServiceName)
	return grpc.MethodDesc{}
}

func decoder(body string) func(any) error {
	return func(v any) error { return json.Unmarshal([]byte(body), v) }
}

func TestUnaryDecodesAndDispatches(t *testing.T) {
	m := method(t, BalanceService_ServiceDesc, "ValidateAccount")

	out, err := m.Handler(balanceStub{}, context.Background(), decoder(`{"token":"tok-1"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", out.(*AccountResponse).Account.AccessToken)
}

func TestUnaryRunsInterceptor(t *testing.T) {
	m := method(t, BalanceService_ServiceDesc, "ValidateAccount")

	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return handler(ctx, req)
	}
	_, err := m.Handler(balanceStub{}, context.Background(), decoder(`{"token":"tok-1"}`), interceptor)
	require.NoError(t, err)
	assert.Equal(t, "/barpos.v1.BalanceService/ValidateAccount", seen)
}

func TestUnimplementedMethods(t *testing.T) {
	m := method(t, BalanceService_ServiceDesc, "LoadBalance")

	_, err := m.Handler(balanceStub{}, context.Background(), decoder(`{}`), nil)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestServiceDescsListEveryMethod(t *testing.T) {
	for desc, n := range map[*grpc.ServiceDesc]int{
		&CatalogService_ServiceDesc:   5,
		&OrderService_ServiceDesc:     7,
		&DeliveryService_ServiceDesc:  2,
		&BalanceService_ServiceDesc:   6,
		&InventoryService_ServiceDesc: 7,
	} {
		assert.Len(t, desc.Methods, n, desc.ServiceName)
	}
}
