// Package apiconnect wires the tripsplit.v1 services to Connect handlers and clients.
// It is written by hand in the shape of protoc-gen-connect-go output and
// installs api.JSONCodec on every handler and client.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/pkg/api"
)

const (
	// TripServiceName is the fully-qualified name of the TripService service.
	TripServiceName = "tripsplit.v1.TripService"
	// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
	ExpenseServiceName = "tripsplit.v1.ExpenseService"
)

// Procedure names of TripService RPCs.
const (
	TripServiceCreateTripProcedure           = "/tripsplit.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure              = "/tripsplit.v1.TripService/GetTrip"
	TripServiceListTripsProcedure            = "/tripsplit.v1.TripService/ListTrips"
	TripServiceArchiveTripProcedure          = "/tripsplit.v1.TripService/ArchiveTrip"
	TripServiceAddMemberProcedure            = "/tripsplit.v1.TripService/AddMember"
	TripServiceListMembersProcedure          = "/tripsplit.v1.TripService/ListMembers"
	TripServiceDeactivateMembershipProcedure = "/tripsplit.v1.TripService/DeactivateMembership"
	TripServiceReactivateMembershipProcedure = "/tripsplit.v1.TripService/ReactivateMembership"
	TripServiceGetTripBalancesProcedure      = "/tripsplit.v1.TripService/GetTripBalances"
	TripServiceGetPeerBalanceProcedure       = "/tripsplit.v1.TripService/GetPeerBalance"
)

// Procedure names of ExpenseService RPCs.
const (
	ExpenseServiceCreateExpenseProcedure       = "/tripsplit.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure          = "/tripsplit.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure        = "/tripsplit.v1.ExpenseService/ListExpenses"
	ExpenseServiceSetConsentProcedure          = "/tripsplit.v1.ExpenseService/SetConsent"
	ExpenseServiceListPendingConsentsProcedure = "/tripsplit.v1.ExpenseService/ListPendingConsents"
	ExpenseServiceListDisputesProcedure        = "/tripsplit.v1.ExpenseService/ListDisputes"
	ExpenseServiceRemoveDebtorProcedure        = "/tripsplit.v1.ExpenseService/RemoveDebtor"
	ExpenseServiceRejectDisputeProcedure       = "/tripsplit.v1.ExpenseService/RejectDispute"
	ExpenseServiceReAddDebtorProcedure         = "/tripsplit.v1.ExpenseService/ReAddDebtor"
)

// TripServiceHandler is implemented by the server side of tripsplit.v1.TripService.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	ArchiveTrip(context.Context, *connect.Request[api.ArchiveTripRequest]) (*connect.Response[api.ArchiveTripResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	DeactivateMembership(context.Context, *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error)
	ReactivateMembership(context.Context, *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error)
	GetTripBalances(context.Context, *connect.Request[api.GetTripBalancesRequest]) (*connect.Response[api.GetTripBalancesResponse], error)
	GetPeerBalance(context.Context, *connect.Request[api.GetPeerBalanceRequest]) (*connect.Response[api.GetPeerBalanceResponse], error)
}

// ExpenseServiceHandler is implemented by the server side of tripsplit.v1.ExpenseService.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	SetConsent(context.Context, *connect.Request[api.SetConsentRequest]) (*connect.Response[api.SetConsentResponse], error)
	ListPendingConsents(context.Context, *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error)
	ListDisputes(context.Context, *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error)
	RemoveDebtor(context.Context, *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error)
	RejectDispute(context.Context, *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error)
	ReAddDebtor(context.Context, *connect.Request[api.ReAddDebtorRequest]) (*connect.Response[api.ReAddDebtorResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return route(TripServiceName, map[string]http.Handler{
		TripServiceCreateTripProcedure:           connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...),
		TripServiceGetTripProcedure:              connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceListTripsProcedure:            connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...),
		TripServiceArchiveTripProcedure:          connect.NewUnaryHandler(TripServiceArchiveTripProcedure, svc.ArchiveTrip, opts...),
		TripServiceAddMemberProcedure:            connect.NewUnaryHandler(TripServiceAddMemberProcedure, svc.AddMember, opts...),
		TripServiceListMembersProcedure:          connect.NewUnaryHandler(TripServiceListMembersProcedure, svc.ListMembers, opts...),
		TripServiceDeactivateMembershipProcedure: connect.NewUnaryHandler(TripServiceDeactivateMembershipProcedure, svc.DeactivateMembership, opts...),
		TripServiceReactivateMembershipProcedure: connect.NewUnaryHandler(TripServiceReactivateMembershipProcedure, svc.ReactivateMembership, opts...),
		TripServiceGetTripBalancesProcedure:      connect.NewUnaryHandler(TripServiceGetTripBalancesProcedure, svc.GetTripBalances, opts...),
		TripServiceGetPeerBalanceProcedure:       connect.NewUnaryHandler(TripServiceGetPeerBalanceProcedure, svc.GetPeerBalance, opts...),
	})
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return route(ExpenseServiceName, map[string]http.Handler{
		ExpenseServiceCreateExpenseProcedure:       connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		ExpenseServiceGetExpenseProcedure:          connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...),
		ExpenseServiceListExpensesProcedure:        connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...),
		ExpenseServiceSetConsentProcedure:          connect.NewUnaryHandler(ExpenseServiceSetConsentProcedure, svc.SetConsent, opts...),
		ExpenseServiceListPendingConsentsProcedure: connect.NewUnaryHandler(ExpenseServiceListPendingConsentsProcedure, svc.ListPendingConsents, opts...),
		ExpenseServiceListDisputesProcedure:        connect.NewUnaryHandler(ExpenseServiceListDisputesProcedure, svc.ListDisputes, opts...),
		ExpenseServiceRemoveDebtorProcedure:        connect.NewUnaryHandler(ExpenseServiceRemoveDebtorProcedure, svc.RemoveDebtor, opts...),
		ExpenseServiceRejectDisputeProcedure:       connect.NewUnaryHandler(ExpenseServiceRejectDisputeProcedure, svc.RejectDispute, opts...),
		ExpenseServiceReAddDebtorProcedure:         connect.NewUnaryHandler(ExpenseServiceReAddDebtorProcedure, svc.ReAddDebtor, opts...),
	})
}

func route(service string, handlers map[string]http.Handler) (string, http.Handler) {
	return "/" + service + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// TripServiceClient is a client for the tripsplit.v1.TripService service.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error)
	ArchiveTrip(context.Context, *connect.Request[api.ArchiveTripRequest]) (*connect.Response[api.ArchiveTripResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	DeactivateMembership(context.Context, *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error)
	ReactivateMembership(context.Context, *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error)
	GetTripBalances(context.Context, *connect.Request[api.GetTripBalancesRequest]) (*connect.Response[api.GetTripBalancesResponse], error)
	GetPeerBalance(context.Context, *connect.Request[api.GetPeerBalanceRequest]) (*connect.Response[api.GetPeerBalanceResponse], error)
}

// NewTripServiceClient constructs a client for the tripsplit.v1.TripService
// service. baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &tripServiceClient{
		createTrip:           connect.NewClient[api.CreateTripRequest, api.CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:              connect.NewClient[api.GetTripRequest, api.GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:            connect.NewClient[api.ListTripsRequest, api.ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		archiveTrip:          connect.NewClient[api.ArchiveTripRequest, api.ArchiveTripResponse](httpClient, baseURL+TripServiceArchiveTripProcedure, opts...),
		addMember:            connect.NewClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL+TripServiceAddMemberProcedure, opts...),
		listMembers:          connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+TripServiceListMembersProcedure, opts...),
		deactivateMembership: connect.NewClient[api.MembershipRequest, api.MembershipResponse](httpClient, baseURL+TripServiceDeactivateMembershipProcedure, opts...),
		reactivateMembership: connect.NewClient[api.MembershipRequest, api.MembershipResponse](httpClient, baseURL+TripServiceReactivateMembershipProcedure, opts...),
		getTripBalances:      connect.NewClient[api.GetTripBalancesRequest, api.GetTripBalancesResponse](httpClient, baseURL+TripServiceGetTripBalancesProcedure, opts...),
		getPeerBalance:       connect.NewClient[api.GetPeerBalanceRequest, api.GetPeerBalanceResponse](httpClient, baseURL+TripServiceGetPeerBalanceProcedure, opts...),
	}
}

type tripServiceClient struct {
	createTrip           *connect.Client[api.CreateTripRequest, api.CreateTripResponse]
	getTrip              *connect.Client[api.GetTripRequest, api.GetTripResponse]
	listTrips            *connect.Client[api.ListTripsRequest, api.ListTripsResponse]
	archiveTrip          *connect.Client[api.ArchiveTripRequest, api.ArchiveTripResponse]
	addMember            *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	listMembers          *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	deactivateMembership *connect.Client[api.MembershipRequest, api.MembershipResponse]
	reactivateMembership *connect.Client[api.MembershipRequest, api.MembershipResponse]
	getTripBalances      *connect.Client[api.GetTripBalancesRequest, api.GetTripBalancesResponse]
	getPeerBalance       *connect.Client[api.GetPeerBalanceRequest, api.GetPeerBalanceResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) ArchiveTrip(ctx context.Context, req *connect.Request[api.ArchiveTripRequest]) (*connect.Response[api.ArchiveTripResponse], error) {
	return c.archiveTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *tripServiceClient) DeactivateMembership(ctx context.Context, req *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error) {
	return c.deactivateMembership.CallUnary(ctx, req)
}

func (c *tripServiceClient) ReactivateMembership(ctx context.Context, req *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error) {
	return c.reactivateMembership.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTripBalances(ctx context.Context, req *connect.Request[api.GetTripBalancesRequest]) (*connect.Response[api.GetTripBalancesResponse], error) {
	return c.getTripBalances.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetPeerBalance(ctx context.Context, req *connect.Request[api.GetPeerBalanceRequest]) (*connect.Response[api.GetPeerBalanceResponse], error) {
	return c.getPeerBalance.CallUnary(ctx, req)
}

// ExpenseServiceClient is a client for the tripsplit.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	SetConsent(context.Context, *connect.Request[api.SetConsentRequest]) (*connect.Response[api.SetConsentResponse], error)
	ListPendingConsents(context.Context, *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error)
	ListDisputes(context.Context, *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error)
	RemoveDebtor(context.Context, *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error)
	RejectDispute(context.Context, *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error)
	ReAddDebtor(context.Context, *connect.Request[api.ReAddDebtorRequest]) (*connect.Response[api.ReAddDebtorResponse], error)
}

// NewExpenseServiceClient constructs a client for the tripsplit.v1.ExpenseService
// service. baseURL is the server's scheme and host, e.g. http://localhost:8080.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)
	return &expenseServiceClient{
		createExpense:       connect.NewClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:          connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:        connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		setConsent:          connect.NewClient[api.SetConsentRequest, api.SetConsentResponse](httpClient, baseURL+ExpenseServiceSetConsentProcedure, opts...),
		listPendingConsents: connect.NewClient[api.ListConsentsRequest, api.ListConsentsResponse](httpClient, baseURL+ExpenseServiceListPendingConsentsProcedure, opts...),
		listDisputes:        connect.NewClient[api.ListConsentsRequest, api.ListConsentsResponse](httpClient, baseURL+ExpenseServiceListDisputesProcedure, opts...),
		removeDebtor:        connect.NewClient[api.ResolveDisputeRequest, api.ResolveDisputeResponse](httpClient, baseURL+ExpenseServiceRemoveDebtorProcedure, opts...),
		rejectDispute:       connect.NewClient[api.ResolveDisputeRequest, api.ResolveDisputeResponse](httpClient, baseURL+ExpenseServiceRejectDisputeProcedure, opts...),
		reAddDebtor:         connect.NewClient[api.ReAddDebtorRequest, api.ReAddDebtorResponse](httpClient, baseURL+ExpenseServiceReAddDebtorProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense       *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense          *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses        *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	setConsent          *connect.Client[api.SetConsentRequest, api.SetConsentResponse]
	listPendingConsents *connect.Client[api.ListConsentsRequest, api.ListConsentsResponse]
	listDisputes        *connect.Client[api.ListConsentsRequest, api.ListConsentsResponse]
	removeDebtor        *connect.Client[api.ResolveDisputeRequest, api.ResolveDisputeResponse]
	rejectDispute       *connect.Client[api.ResolveDisputeRequest, api.ResolveDisputeResponse]
	reAddDebtor         *connect.Client[api.ReAddDebtorRequest, api.ReAddDebtorResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) SetConsent(ctx context.Context, req *connect.Request[api.SetConsentRequest]) (*connect.Response[api.SetConsentResponse], error) {
	return c.setConsent.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListPendingConsents(ctx context.Context, req *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error) {
	return c.listPendingConsents.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListDisputes(ctx context.Context, req *connect.Request[api.ListConsentsRequest]) (*connect.Response[api.ListConsentsResponse], error) {
	return c.listDisputes.CallUnary(ctx, req)
}

func (c *expenseServiceClient) RemoveDebtor(ctx context.Context, req *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error) {
	return c.removeDebtor.CallUnary(ctx, req)
}

func (c *expenseServiceClient) RejectDispute(ctx context.Context, req *connect.Request[api.ResolveDisputeRequest]) (*connect.Response[api.ResolveDisputeResponse], error) {
	return c.rejectDispute.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ReAddDebtor(ctx context.Context, req *connect.Request[api.ReAddDebtorRequest]) (*connect.Response[api.ReAddDebtorResponse], error) {
	return c.reAddDebtor.CallUnary(ctx, req)
}
