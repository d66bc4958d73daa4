package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/ledger"
	"github.com/mmynk/tripsplit/pkg/api"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

var _ apiconnect.TripServiceHandler = (*TripService)(nil)

// TripService implements the Connect TripService.
type TripService struct {
	ledger *ledger.Ledger
}

// NewTripService creates a new TripService backed by the given ledger.
func NewTripService(l *ledger.Ledger) *TripService {
	return &TripService{ledger: l}
}

// CreateTrip creates a trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := s.ledger.CreateTrip(ctx, userID, req.Msg.Name, req.Msg.Currency)
	if err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Trip created", "trip_id", trip.ID, "creator_id", userID)
	return connect.NewResponse(&api.CreateTripResponse{Trip: tripToAPI(trip)}), nil
}

// GetTrip returns a trip and its members. Only members may read it.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.TripID); err != nil {
		return nil, err
	}

	trip, err := s.ledger.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, connectError(err)
	}
	members, err := s.ledger.ListMembers(ctx, req.Msg.TripID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetTripResponse{
		Trip:    tripToAPI(trip),
		Members: membersToAPI(members),
	}), nil
}

// ListTrips returns the caller's trips.
func (s *TripService) ListTrips(ctx context.Context, _ *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	trips, err := s.ledger.ListTrips(ctx, userID)
	if err != nil {
		slog.Error("ListTrips failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]api.Trip, len(trips))
	for i, t := range trips {
		out[i] = tripToAPI(t)
	}
	return connect.NewResponse(&api.ListTripsResponse{Trips: out}), nil
}

// ArchiveTrip soft-deletes a trip the caller created.
func (s *TripService) ArchiveTrip(ctx context.Context, req *connect.Request[api.ArchiveTripRequest]) (*connect.Response[api.ArchiveTripResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.ArchiveTrip(ctx, req.Msg.TripID, userID); err != nil {
		slog.Warn("ArchiveTrip failed", "trip_id", req.Msg.TripID, "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Trip archived", "trip_id", req.Msg.TripID)
	return connect.NewResponse(&api.ArchiveTripResponse{}), nil
}

// AddMember lets an active member bring another user into the trip.
func (s *TripService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.TripID); err != nil {
		return nil, err
	}

	m, err := s.ledger.AddMember(ctx, req.Msg.TripID, req.Msg.UserID, req.Msg.Nickname)
	if err != nil {
		slog.Error("AddMember failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Member added", "trip_id", req.Msg.TripID, "member_id", m.UserID)
	return connect.NewResponse(&api.AddMemberResponse{Member: memberToAPI(m)}), nil
}

// ListMembers returns every membership of a trip, inactive ones included.
func (s *TripService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.TripID); err != nil {
		return nil, err
	}

	members, err := s.ledger.ListMembers(ctx, req.Msg.TripID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: membersToAPI(members)}), nil
}

// DeactivateMembership lets a member leave, or the trip creator remove a
// member. It fails with FailedPrecondition while the member's balance is open.
func (s *TripService) DeactivateMembership(ctx context.Context, req *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	target := req.Msg.UserID
	if target == "" {
		target = userID
	}

	if target != userID {
		trip, err := s.ledger.GetTrip(ctx, req.Msg.TripID)
		if err != nil {
			return nil, connectError(err)
		}
		if trip.CreatorID != userID {
			return nil, connect.NewError(connect.CodePermissionDenied, errOnlyCreator)
		}
	}

	if err := s.ledger.DeactivateMembership(ctx, req.Msg.TripID, target); err != nil {
		slog.Warn("DeactivateMembership failed", "trip_id", req.Msg.TripID, "member_id", target, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Membership deactivated", "trip_id", req.Msg.TripID, "member_id", target)
	return connect.NewResponse(&api.MembershipResponse{}), nil
}

// ReactivateMembership brings a former member back. Any active member may do so.
func (s *TripService) ReactivateMembership(ctx context.Context, req *connect.Request[api.MembershipRequest]) (*connect.Response[api.MembershipResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	if req.Msg.UserID == "" {
		return nil, invalidArgument("user_id is required")
	}

	if err := s.ledger.ReactivateMembership(ctx, req.Msg.TripID, req.Msg.UserID); err != nil {
		slog.Error("ReactivateMembership failed", "trip_id", req.Msg.TripID, "member_id", req.Msg.UserID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Membership reactivated", "trip_id", req.Msg.TripID, "member_id", req.Msg.UserID, "by", userID)
	return connect.NewResponse(&api.MembershipResponse{}), nil
}

// GetTripBalances returns every member's net balance and settle-up suggestions.
func (s *TripService) GetTripBalances(ctx context.Context, req *connect.Request[api.GetTripBalancesRequest]) (*connect.Response[api.GetTripBalancesResponse], error) {
	if _, err := requireMember(ctx, s.ledger, req.Msg.TripID); err != nil {
		return nil, err
	}

	report, err := s.ledger.GetTripBalances(ctx, req.Msg.TripID)
	if err != nil {
		slog.Error("GetTripBalances failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connectError(err)
	}

	slog.Debug("Trip balances calculated",
		"trip_id", req.Msg.TripID,
		"members", len(report.Balances),
		"settlements", len(report.Settlements),
	)
	return connect.NewResponse(&api.GetTripBalancesResponse{
		Balances:    balancesToAPI(report.Balances),
		Settlements: settlementsToAPI(report.Settlements),
	}), nil
}

// GetPeerBalance returns what user_b owes user_a. user_a defaults to the caller.
func (s *TripService) GetPeerBalance(ctx context.Context, req *connect.Request[api.GetPeerBalanceRequest]) (*connect.Response[api.GetPeerBalanceResponse], error) {
	userID, err := requireMember(ctx, s.ledger, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	userA := req.Msg.UserA
	if userA == "" {
		userA = userID
	}

	balance, err := s.ledger.GetPeerBalance(ctx, req.Msg.TripID, userA, req.Msg.UserB)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetPeerBalanceResponse{Balance: balance}), nil
}

// requireMember returns the caller's ID if they are an active member of tripID.
func requireMember(ctx context.Context, l *ledger.Ledger, tripID string) (string, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return "", err
	}
	if tripID == "" {
		return "", invalidArgument("trip_id is required")
	}
	if err := l.RequireActiveMember(ctx, tripID, userID); err != nil {
		return "", connectError(err)
	}
	return userID, nil
}
