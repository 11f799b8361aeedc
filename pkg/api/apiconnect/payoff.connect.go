package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/saveplus/payoff/pkg/api"
)

// PayoffServiceName is the fully-qualified name of the PayoffService service.
const PayoffServiceName = "saveplus.payoff.v1.PayoffService"

const (
	PayoffServiceSimulateProcedure      = "/saveplus.payoff.v1.PayoffService/Simulate"
	PayoffServiceSimulateSavedProcedure = "/saveplus.payoff.v1.PayoffService/SimulateSaved"
	PayoffServiceCompareProcedure       = "/saveplus.payoff.v1.PayoffService/Compare"
)

// PayoffServiceClient is a client for the saveplus.payoff.v1.PayoffService service.
type PayoffServiceClient interface {
	Simulate(context.Context, *connect.Request[api.SimulateRequest]) (*connect.Response[api.SimulateResponse], error)
	SimulateSaved(context.Context, *connect.Request[api.SimulateSavedRequest]) (*connect.Response[api.SimulateSavedResponse], error)
	Compare(context.Context, *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error)
}

// NewPayoffServiceClient constructs a client for the saveplus.payoff.v1.PayoffService service.
func NewPayoffServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PayoffServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &payoffServiceClient{
		simulate: connect.NewClient[api.SimulateRequest, api.SimulateResponse](
			httpClient, baseURL+PayoffServiceSimulateProcedure, opts...,
		),
		simulateSaved: connect.NewClient[api.SimulateSavedRequest, api.SimulateSavedResponse](
			httpClient, baseURL+PayoffServiceSimulateSavedProcedure, opts...,
		),
		compare: connect.NewClient[api.CompareRequest, api.CompareResponse](
			httpClient, baseURL+PayoffServiceCompareProcedure, opts...,
		),
	}
}

type payoffServiceClient struct {
	simulate      *connect.Client[api.SimulateRequest, api.SimulateResponse]
	simulateSaved *connect.Client[api.SimulateSavedRequest, api.SimulateSavedResponse]
	compare       *connect.Client[api.CompareRequest, api.CompareResponse]
}

func (c *payoffServiceClient) Simulate(ctx context.Context, req *connect.Request[api.SimulateRequest]) (*connect.Response[api.SimulateResponse], error) {
	return c.simulate.CallUnary(ctx, req)
}

func (c *payoffServiceClient) SimulateSaved(ctx context.Context, req *connect.Request[api.SimulateSavedRequest]) (*connect.Response[api.SimulateSavedResponse], error) {
	return c.simulateSaved.CallUnary(ctx, req)
}

func (c *payoffServiceClient) Compare(ctx context.Context, req *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error) {
	return c.compare.CallUnary(ctx, req)
}

// PayoffServiceHandler is an implementation of the saveplus.payoff.v1.PayoffService service.
//
// Simulate is public. SimulateSaved, and Compare with use_saved, need an
// authenticated caller.
type PayoffServiceHandler interface {
	Simulate(context.Context, *connect.Request[api.SimulateRequest]) (*connect.Response[api.SimulateResponse], error)
	SimulateSaved(context.Context, *connect.Request[api.SimulateSavedRequest]) (*connect.Response[api.SimulateSavedResponse], error)
	Compare(context.Context, *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error)
}

// NewPayoffServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPayoffServiceHandler(svc PayoffServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	simulateHandler := connect.NewUnaryHandler(PayoffServiceSimulateProcedure, svc.Simulate, opts...)
	simulateSavedHandler := connect.NewUnaryHandler(PayoffServiceSimulateSavedProcedure, svc.SimulateSaved, opts...)
	compareHandler := connect.NewUnaryHandler(PayoffServiceCompareProcedure, svc.Compare, opts...)
	return "/" + PayoffServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PayoffServiceSimulateProcedure:
			simulateHandler.ServeHTTP(w, r)
		case PayoffServiceSimulateSavedProcedure:
			simulateSavedHandler.ServeHTTP(w, r)
		case PayoffServiceCompareProcedure:
			compareHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedPayoffServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPayoffServiceHandler struct{}

func (UnimplementedPayoffServiceHandler) Simulate(context.Context, *connect.Request[api.SimulateRequest]) (*connect.Response[api.SimulateResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.payoff.v1.PayoffService.Simulate is not implemented"))
}

func (UnimplementedPayoffServiceHandler) SimulateSaved(context.Context, *connect.Request[api.SimulateSavedRequest]) (*connect.Response[api.SimulateSavedResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.payoff.v1.PayoffService.SimulateSaved is not implemented"))
}

func (UnimplementedPayoffServiceHandler) Compare(context.Context, *connect.Request[api.CompareRequest]) (*connect.Response[api.CompareResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("saveplus.payoff.v1.PayoffService.Compare is not implemented"))
}
