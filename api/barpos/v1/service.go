package barposv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	CatalogServiceName   = "barpos.v1.CatalogService"
	OrderServiceName     = "barpos.v1.OrderService"
	DeliveryServiceName  = "barpos.v1.DeliveryService"
	BalanceServiceName   = "barpos.v1.BalanceService"
	InventoryServiceName = "barpos.v1.InventoryService"
)

// unary builds the method descriptor of one RPC, decoding into Req and
// dispatching through the server interceptor chain.
func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			})
		},
	}
}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

// --- CatalogService ---

type CatalogServiceServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*ProductResponse, error)
	ResolveRecipe(context.Context, *ResolveRecipeRequest) (*ResolveRecipeResponse, error)
}

type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error) {
	return nil, unimplemented("CreateProduct")
}
func (UnimplementedCatalogServiceServer) GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error) {
	return nil, unimplemented("GetProduct")
}
func (UnimplementedCatalogServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error) {
	return nil, unimplemented("ListProducts")
}
func (UnimplementedCatalogServiceServer) UpdateProduct(context.Context, *UpdateProductRequest) (*ProductResponse, error) {
	return nil, unimplemented("UpdateProduct")
}
func (UnimplementedCatalogServiceServer) ResolveRecipe(context.Context, *ResolveRecipeRequest) (*ResolveRecipeResponse, error) {
	return nil, unimplemented("ResolveRecipe")
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CatalogServiceName, "CreateProduct", CatalogServiceServer.CreateProduct),
		unary(CatalogServiceName, "GetProduct", CatalogServiceServer.GetProduct),
		unary(CatalogServiceName, "ListProducts", CatalogServiceServer.ListProducts),
		unary(CatalogServiceName, "UpdateProduct", CatalogServiceServer.UpdateProduct),
		unary(CatalogServiceName, "ResolveRecipe", CatalogServiceServer.ResolveRecipe),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "barpos/v1/catalog",
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

// --- OrderService ---

type OrderServiceServer interface {
	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	GetOrderByToken(context.Context, *GetOrderByTokenRequest) (*OrderDetailResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*OrderResponse, error)
	ReviewPayment(context.Context, *ReviewPaymentRequest) (*OrderResponse, error)
	ListPendingPayments(context.Context, *ListPendingPaymentsRequest) (*ListOrdersResponse, error)
}

type UnimplementedOrderServiceServer struct{}

func (UnimplementedOrderServiceServer) CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error) {
	return nil, unimplemented("CreateOrder")
}
func (UnimplementedOrderServiceServer) GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error) {
	return nil, unimplemented("GetOrder")
}
func (UnimplementedOrderServiceServer) GetOrderByToken(context.Context, *GetOrderByTokenRequest) (*OrderDetailResponse, error) {
	return nil, unimplemented("GetOrderByToken")
}
func (UnimplementedOrderServiceServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, unimplemented("ListOrders")
}
func (UnimplementedOrderServiceServer) CancelOrder(context.Context, *CancelOrderRequest) (*OrderResponse, error) {
	return nil, unimplemented("CancelOrder")
}
func (UnimplementedOrderServiceServer) ReviewPayment(context.Context, *ReviewPaymentRequest) (*OrderResponse, error) {
	return nil, unimplemented("ReviewPayment")
}
func (UnimplementedOrderServiceServer) ListPendingPayments(context.Context, *ListPendingPaymentsRequest) (*ListOrdersResponse, error) {
	return nil, unimplemented("ListPendingPayments")
}

var OrderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: OrderServiceName,
	HandlerType: (*OrderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(OrderServiceName, "CreateOrder", OrderServiceServer.CreateOrder),
		unary(OrderServiceName, "GetOrder", OrderServiceServer.GetOrder),
		unary(OrderServiceName, "GetOrderByToken", OrderServiceServer.GetOrderByToken),
		unary(OrderServiceName, "ListOrders", OrderServiceServer.ListOrders),
		unary(OrderServiceName, "CancelOrder", OrderServiceServer.CancelOrder),
		unary(OrderServiceName, "ReviewPayment", OrderServiceServer.ReviewPayment),
		unary(OrderServiceName, "ListPendingPayments", OrderServiceServer.ListPendingPayments),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "barpos/v1/order",
}

func RegisterOrderServiceServer(s grpc.ServiceRegistrar, srv OrderServiceServer) {
	s.RegisterService(&OrderService_ServiceDesc, srv)
}

// --- DeliveryService ---

type DeliveryServiceServer interface {
	RecordDelivery(context.Context, *RecordDeliveryRequest) (*RecordDeliveryResponse, error)
	ListDeliveries(context.Context, *ListDeliveriesRequest) (*ListDeliveriesResponse, error)
}

type UnimplementedDeliveryServiceServer struct{}

func (UnimplementedDeliveryServiceServer) RecordDelivery(context.Context, *RecordDeliveryRequest) (*RecordDeliveryResponse, error) {
	return nil, unimplemented("RecordDelivery")
}
func (UnimplementedDeliveryServiceServer) ListDeliveries(context.Context, *ListDeliveriesRequest) (*ListDeliveriesResponse, error) {
	return nil, unimplemented("ListDeliveries")
}

var DeliveryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: DeliveryServiceName,
	HandlerType: (*DeliveryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(DeliveryServiceName, "RecordDelivery", DeliveryServiceServer.RecordDelivery),
		unary(DeliveryServiceName, "ListDeliveries", DeliveryServiceServer.ListDeliveries),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "barpos/v1/delivery",
}

func RegisterDeliveryServiceServer(s grpc.ServiceRegistrar, srv DeliveryServiceServer) {
	s.RegisterService(&DeliveryService_ServiceDesc, srv)
}

// --- BalanceService ---

type BalanceServiceServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*AccountResponse, error)
	ValidateAccount(context.Context, *ValidateAccountRequest) (*AccountResponse, error)
	LoadBalance(context.Context, *LoadBalanceRequest) (*BalanceTransactionResponse, error)
	BlockAccount(context.Context, *AccountTokenRequest) (*AccountResponse, error)
	ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error)
	ListTransactions(context.Context, *AccountTokenRequest) (*ListTransactionsResponse, error)
}

type UnimplementedBalanceServiceServer struct{}

func (UnimplementedBalanceServiceServer) CreateAccount(context.Context, *CreateAccountRequest) (*AccountResponse, error) {
	return nil, unimplemented("CreateAccount")
}
func (UnimplementedBalanceServiceServer) ValidateAccount(context.Context, *ValidateAccountRequest) (*AccountResponse, error) {
	return nil, unimplemented("ValidateAccount")
}
func (UnimplementedBalanceServiceServer) LoadBalance(context.Context, *LoadBalanceRequest) (*BalanceTransactionResponse, error) {
	return nil, unimplemented("LoadBalance")
}
func (UnimplementedBalanceServiceServer) BlockAccount(context.Context, *AccountTokenRequest) (*AccountResponse, error) {
	return nil, unimplemented("BlockAccount")
}
func (UnimplementedBalanceServiceServer) ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error) {
	return nil, unimplemented("ListAccounts")
}
func (UnimplementedBalanceServiceServer) ListTransactions(context.Context, *AccountTokenRequest) (*ListTransactionsResponse, error) {
	return nil, unimplemented("ListTransactions")
}

var BalanceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: BalanceServiceName,
	HandlerType: (*BalanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(BalanceServiceName, "CreateAccount", BalanceServiceServer.CreateAccount),
		unary(BalanceServiceName, "ValidateAccount", BalanceServiceServer.ValidateAccount),
		unary(BalanceServiceName, "LoadBalance", BalanceServiceServer.LoadBalance),
		unary(BalanceServiceName, "BlockAccount", BalanceServiceServer.BlockAccount),
		unary(BalanceServiceName, "ListAccounts", BalanceServiceServer.ListAccounts),
		unary(BalanceServiceName, "ListTransactions", BalanceServiceServer.ListTransactions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "barpos/v1/balance",
}

func RegisterBalanceServiceServer(s grpc.ServiceRegistrar, srv BalanceServiceServer) {
	s.RegisterService(&BalanceService_ServiceDesc, srv)
}

// --- InventoryService ---

type InventoryServiceServer interface {
	AdjustStock(context.Context, *AdjustStockRequest) (*StockResponse, error)
	RecordInbound(context.Context, *RecordInboundRequest) (*StockResponse, error)
	TransferStock(context.Context, *TransferStockRequest) (*emptypb.Empty, error)
	GetStock(context.Context, *GetStockRequest) (*StockResponse, error)
	ListStock(context.Context, *ListStockRequest) (*ListStockResponse, error)
	ListLowStock(context.Context, *ListLowStockRequest) (*ListStockResponse, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
}

type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) AdjustStock(context.Context, *AdjustStockRequest) (*StockResponse, error) {
	return nil, unimplemented("AdjustStock")
}
func (UnimplementedInventoryServiceServer) RecordInbound(context.Context, *RecordInboundRequest) (*StockResponse, error) {
	return nil, unimplemented("RecordInbound")
}
func (UnimplementedInventoryServiceServer) TransferStock(context.Context, *TransferStockRequest) (*emptypb.Empty, error) {
	return nil, unimplemented("TransferStock")
}
func (UnimplementedInventoryServiceServer) GetStock(context.Context, *GetStockRequest) (*StockResponse, error) {
	return nil, unimplemented("GetStock")
}
func (UnimplementedInventoryServiceServer) ListStock(context.Context, *ListStockRequest) (*ListStockResponse, error) {
	return nil, unimplemented("ListStock")
}
func (UnimplementedInventoryServiceServer) ListLowStock(context.Context, *ListLowStockRequest) (*ListStockResponse, error) {
	return nil, unimplemented("ListLowStock")
}
func (UnimplementedInventoryServiceServer) ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error) {
	return nil, unimplemented("ListMovements")
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(InventoryServiceName, "AdjustStock", InventoryServiceServer.AdjustStock),
		unary(InventoryServiceName, "RecordInbound", InventoryServiceServer.RecordInbound),
		unary(InventoryServiceName, "TransferStock", InventoryServiceServer.TransferStock),
		unary(InventoryServiceName, "GetStock", InventoryServiceServer.GetStock),
		unary(InventoryServiceName, "ListStock", InventoryServiceServer.ListStock),
		unary(InventoryServiceName, "ListLowStock", InventoryServiceServer.ListLowStock),
		unary(InventoryServiceName, "ListMovements", InventoryServiceServer.ListMovements),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "barpos/v1/inventory",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}
