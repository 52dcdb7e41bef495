package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophbudget/internal/api"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	api         *api.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onRefresh    func(access, refresh string)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) SetTokens(access, refresh string) {
	s.mu.Lock()
	s.accessToken, s.refreshToken = access, refresh
	s.mu.Unlock()
}

// OnTokensRefreshed registers fn to be called after a transparent refresh,
// so the caller can persist the rotated pair.
func (s *GRPCClient) OnTokensRefreshed(fn func(access, refresh string)) {
	s.mu.Lock()
	s.onRefresh = fn
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := s.Tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil || method == api.FullMethod(api.MethodRefreshToken) {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	resp, rerr := s.api.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: refresh})
	if rerr != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken, s.refreshToken = resp.AccessToken, resp.RefreshToken
	onRefresh := s.onRefresh
	s.mu.Unlock()

	if onRefresh != nil {
		onRefresh(resp.AccessToken, resp.RefreshToken)
	}

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	conn, err := grpc.NewClient(endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = api.NewClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrUnavailable
		}
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return common.ErrNotFound
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.api.Ping(ctx, &api.Empty{})
	return mapError(err)
}

func (s *GRPCClient) Register(ctx context.Context, username string, salt []byte, verifier []byte) error {
	_, err := s.api.Register(ctx, &api.RegisterRequest{Username: username, Salt: salt, Verifier: verifier})
	return mapError(err)
}

func (s *GRPCClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	resp, err := s.api.GetSalt(ctx, &api.GetSaltRequest{Username: username})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Salt, nil
}

// Login stores the issued tokens and returns the user id.
func (s *GRPCClient) Login(ctx context.Context, username string, verifier []byte) (string, error) {
	resp, err := s.api.Login(ctx, &api.LoginRequest{Username: username, Verifier: verifier})
	if err != nil {
		return "", mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return resp.UserID, nil
}

func (s *GRPCClient) FederatedLogin(ctx context.Context, idToken string) (FederatedIdentity, error) {
	resp, err := s.api.FederatedLogin(ctx, &api.FederatedLoginRequest{IDToken: idToken})
	if err != nil {
		return FederatedIdentity{}, mapError(err)
	}
	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return FederatedIdentity{
		UserID:      resp.UserID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		PhotoURL:    resp.PhotoURL,
		IsNewUser:   resp.IsNewUser,
	}, nil
}

func (s *GRPCClient) ListBudgets(ctx context.Context, p models.Period, category string) ([]models.Budget, error) {
	resp, err := s.api.ListBudgets(ctx, &api.ListRequest{Start: p.Start, End: p.End, Category: category})
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]models.Budget, 0, len(resp.Budgets))
	for _, b := range resp.Budgets {
		out = append(out, budgetFromAPI(b))
	}
	return out, nil
}

func (s *GRPCClient) GetBudget(ctx context.Context, id string) (models.Budget, error) {
	resp, err := s.api.GetBudget(ctx, &api.IDRequest{ID: id})
	if err != nil {
		return models.Budget{}, mapError(err)
	}
	return budgetFromAPI(resp.Budget), nil
}

func (s *GRPCClient) AddBudget(ctx context.Context, b models.Budget) error {
	_, err := s.api.AddBudget(ctx, &api.BudgetMessage{Budget: budgetToAPI(b)})
	return mapError(err)
}

func (s *GRPCClient) UpdateBudget(ctx context.Context, b models.Budget) error {
	_, err := s.api.UpdateBudget(ctx, &api.BudgetMessage{Budget: budgetToAPI(b)})
	return mapError(err)
}

func (s *GRPCClient) DeleteBudget(ctx context.Context, id string) error {
	_, err := s.api.DeleteBudget(ctx, &api.IDRequest{ID: id})
	return mapError(err)
}

func (s *GRPCClient) ListTransactions(ctx context.Context, kind models.Kind, p models.Period, category string) ([]models.Transaction, error) {
	resp, err := s.api.ListTransactions(ctx, &api.ListRequest{Kind: string(kind), Start: p.Start, End: p.End, Category: category})
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]models.Transaction, 0, len(resp.Transactions))
	for _, t := range resp.Transactions {
		out = append(out, transactionFromAPI(t))
	}
	return out, nil
}

func (s *GRPCClient) GetTransaction(ctx context.Context, kind models.Kind, id string) (models.Transaction, error) {
	resp, err := s.api.GetTransaction(ctx, &api.IDRequest{Kind: string(kind), ID: id})
	if err != nil {
		return models.Transaction{}, mapError(err)
	}
	return transactionFromAPI(resp.Transaction), nil
}

func (s *GRPCClient) AddTransaction(ctx context.Context, t models.Transaction) error {
	_, err := s.api.AddTransaction(ctx, &api.TransactionMessage{Transaction: transactionToAPI(t)})
	return mapError(err)
}

func (s *GRPCClient) UpdateTransaction(ctx context.Context, t models.Transaction) error {
	_, err := s.api.UpdateTransaction(ctx, &api.TransactionMessage{Transaction: transactionToAPI(t)})
	return mapError(err)
}

func (s *GRPCClient) DeleteTransaction(ctx context.Context, kind models.Kind, id string) error {
	_, err := s.api.DeleteTransaction(ctx, &api.IDRequest{Kind: string(kind), ID: id})
	return mapError(err)
}

func (s *GRPCClient) GetProfile(ctx context.Context) (models.User, error) {
	resp, err := s.api.GetProfile(ctx, &api.Empty{})
	if err != nil {
		return models.User{}, mapError(err)
	}
	return profileFromAPI(resp.Profile), nil
}

func (s *GRPCClient) SaveProfile(ctx context.Context, u models.User) error {
	_, err := s.api.SaveProfile(ctx, &api.ProfileMessage{Profile: profileToAPI(u)})
	return mapError(err)
}

func (s *GRPCClient) DeleteProfile(ctx context.Context) error {
	_, err := s.api.DeleteProfile(ctx, &api.Empty{})
	return mapError(err)
}

func (s *GRPCClient) PresignReceiptUpload(ctx context.Context, contentType string) (string, string, error) {
	resp, err := s.api.PresignReceiptUpload(ctx, &api.PresignUploadRequest{ContentType: contentType})
	if err != nil {
		return "", "", mapError(err)
	}
	return resp.URL, resp.Key, nil
}

func (s *GRPCClient) PresignReceiptDownload(ctx context.Context, key string) (string, error) {
	resp, err := s.api.PresignReceiptDownload(ctx, &api.PresignDownloadRequest{Key: key})
	if err != nil {
		return "", mapError(err)
	}
	return resp.URL, nil
}
