package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/saveplus/payoff/pkg/api"
)

// DebtServiceName is the fully-qualified name of the DebtService service.
const DebtServiceName = "saveplus.debt.v1.DebtService"

const (
	DebtServiceCreateDebtProcedure = "/saveplus.debt.v1.DebtService/CreateDebt"
	DebtServiceGetDebtProcedure    = "/saveplus.debt.v1.DebtService/GetDebt"
	DebtServiceListDebtsProcedure  = "/saveplus.debt.v1.DebtService/ListDebts"
	DebtServiceUpdateDebtProcedure = "/saveplus.debt.v1.DebtService/UpdateDebt"
	DebtServiceDeleteDebtProcedure = "/saveplus.debt.v1.DebtService/DeleteDebt"
)

// DebtServiceClient is a client for the saveplus.debt.v1.DebtService service.
type DebtServiceClient interface {
	CreateDebt(context.Context, *connect.Request[api.CreateDebtRequest]) (*connect.Response[api.CreateDebtResponse], error)
	GetDebt(context.Context, *connect.Request[api.GetDebtRequest]) (*connect.Response[api.GetDebtResponse], error)
	ListDebts(context.Context, *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error)
	UpdateDebt(context.Context, *connect.Request[api.UpdateDebtRequest]) (*connect.Response[api.UpdateDebtResponse], error)
	DeleteDebt(context.Context, *connect.Request[api.DeleteDebtRequest]) (*connect.Response[api.DeleteDebtResponse], error)
}

// NewDebtServiceClient constructs a client for the saveplus.debt.v1.DebtService service.
func NewDebtServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DebtServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &debtServiceClient{
		createDebt: connect.NewClient[api.CreateDebtRequest, api.CreateDebtResponse](
			httpClient, baseURL+DebtServiceCreateDebtProcedure, opts...,
		),
		getDebt: connect.NewClient[api.GetDebtRequest, api.GetDebtResponse](
			httpClient, baseURL+DebtServiceGetDebtProcedure, opts...,
		),
		listDebts: connect.NewClient[api.ListDebtsRequest, api.ListDebtsResponse](
			httpClient, baseURL+DebtServiceListDebtsProcedure, opts...,
		),
		updateDebt: connect.NewClient[api.UpdateDebtRequest, api.UpdateDebtResponse](
			httpClient, baseURL+DebtServiceUpdateDebtProcedure, opts...,
		),
		deleteDebt: connect.NewClient[api.DeleteDebtRequest, api.DeleteDebtResponse](
			httpClient, baseURL+DebtServiceDeleteDebtProcedure, opts...,
		),
	}
}

type debtServiceClient struct {
	createDebt *connect.Client[api.CreateDebtRequest, api.CreateDebtResponse]
	getDebt    *connect.Client[api.GetDebtRequest, api.GetDebtResponse]
	listDebts  *connect.Client[api.ListDebtsRequest, api.ListDebtsResponse]
	updateDebt *connect.Client[api.UpdateDebtRequest, api.UpdateDebtResponse]
	deleteDebt *connect.Client[api.DeleteDebtRequest, api.DeleteDebtResponse]
}

func (c *debtServiceClient) CreateDebt(ctx context.Context, req *connect.Request[api.CreateDebtRequest]) (*connect.Response[api.CreateDebtResponse], error) {
	return c.createDebt.CallUnary(ctx, req)
}

func (c *debtServiceClient) GetDebt(ctx context.Context, req *connect.Request[api.GetDebtRequest]) (*connect.Response[api.GetDebtResponse], error) {
	return c.getDebt.CallUnary(ctx, req)
}

func (c *debtServiceClient) ListDebts(ctx context.Context, req *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	return c.listDebts.CallUnary(ctx, req)
}

func (c *debtServiceClient) UpdateDebt(ctx context.Context, req *connect.Request[api.UpdateDebtRequest]) (*connect.Response[api.UpdateDebtResponse], error) {
	return c.updateDebt.CallUnary(ctx, req)
}

func (c *debtServiceClient) DeleteDebt(ctx context.Context, req *connect.Request[api.DeleteDebtRequest]) (*connect.Response[api.DeleteDebtResponse], error) {
	return c.deleteDebt.CallUnary(ctx, req)
}

// DebtServiceHandler is an implementation of the saveplus.debt.v1.DebtService service.
//
// Every method requires an authenticated caller and only touches the caller's debts.
type DebtServiceHandler interface {
	CreateDebt(context.Context, *connect.Request[api.CreateDebtRequest]) (*connect.Response[api.CreateDebtResponse], error)
	GetDebt(context.Context, *connect.Request[api.GetDebtRequest]) (*connect.Response[api.GetDebtResponse], error)
	ListDebts(context.Context, *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error)
	UpdateDebt(context.Context, *connect.Request[api.UpdateDebtRequest]) (*connect.Response[api.UpdateDebtResponse], error)
	DeleteDebt(context.Context, *connect.Request[api.DeleteDebtRequest]) (*connect.Response[api.DeleteDebtResponse], error)
}

// NewDebtServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewDebtServiceHandler(svc DebtServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	createDebtHandler := connect.NewUnaryHandler(DebtServiceCreateDebtProcedure, svc.CreateDebt, opts...)
	getDebtHandler := connect.NewUnaryHandler(DebtServiceGetDebtProcedure, svc.GetDebt, opts...)
	listDebtsHandler := connect.NewUnaryHandler(DebtServiceListDebtsProcedure, svc.ListDebts, opts...)
	updateDebtHandler := connect.NewUnaryHandler(DebtServiceUpdateDebtProcedure, svc.UpdateDebt, opts...)
	deleteDebtHandler := connect.NewUnaryHandler(DebtServiceDeleteDebtProcedure, svc.DeleteDebt, opts...)
	return "/" + DebtServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DebtServiceCreateDebtProcedure:
			createDebtHandler.ServeHTTP(w, r)
		case DebtServiceGetDebtProcedure:
			getDebtHandler.ServeHTTP(w, r)
		case DebtServiceListDebtsProcedure:
			listDebtsHandler.ServeHTTP(w, r)
		case DebtServiceUpdateDebtProcedure:
			updateDebtHandler.ServeHTTP(w, r)
		case DebtServiceDeleteDebtProcedure:
			deleteDebtHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedDebtServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDebtServiceHandler struct{}

func (UnimplementedDebtServiceHandler) CreateDebt(context.Context, *connect.Request[api.CreateDebtRequest]) (*connect.Response[api.CreateDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.debt.v1.DebtService.CreateDebt is not implemented"))
}

func (UnimplementedDebtServiceHandler) GetDebt(context.Context, *connect.Request[api.GetDebtRequest]) (*connect.Response[api.GetDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.debt.v1.DebtService.GetDebt is not implemented"))
}

func (UnimplementedDebtServiceHandler) ListDebts(context.Context, *connect.Request[api.ListDebtsRequest]) (*connect.Response[api.ListDebtsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.debt.v1.DebtService.ListDebts is not implemented"))
}

func (UnimplementedDebtServiceHandler) UpdateDebt(context.Context, *connect.Request[api.UpdateDebtRequest]) (*connect.Response[api.UpdateDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.debt.v1.DebtService.UpdateDebt is not implemented"))
}

func (UnimplementedDebtServiceHandler) DeleteDebt(context.Context, *connect.Request[api.DeleteDebtRequest]) (*connect.Response[api.DeleteDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.debt.v1.DebtService.DeleteDebt is not implemented"))
}
