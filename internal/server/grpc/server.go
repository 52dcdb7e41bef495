// Package grpc exposes the server services over gRPC using the hand-declared
// service descriptor and JSON codec from internal/api.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophbudget/internal/api"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (*services.TokenPair, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*services.FederatedLogin, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Save(ctx context.Context, userID string, p *models.Profile) error
	Delete(ctx context.Context, userID string) error
}

type FinanceService interface {
	ListBudgets(ctx context.Context, f models.ListFilter) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	AddBudget(ctx context.Context, userID string, b *models.Budget) error
	UpdateBudget(ctx context.Context, userID string, b *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id string) error

	ListTransactions(ctx context.Context, kind string, f models.ListFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, kind, id string) (*models.Transaction, error)
	AddTransaction(ctx context.Context, userID string, t *models.Transaction) error
	UpdateTransaction(ctx context.Context, userID string, t *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, kind, id string) error
}

type ReceiptService interface {
	PresignUpload(ctx context.Context, userID, contentType string) (key, url string, err error)
	PresignDownload(ctx context.Context, userID, key string) (string, error)
}

// Services groups what the handlers delegate to.
type Services struct {
	Users    UserService
	Profiles ProfileService
	Finance  FinanceService
	Receipts ReceiptService
}

type GRPCServer struct {
	api.UnimplementedServer
	address   string
	users     UserService
	profiles  ProfileService
	finance   FinanceService
	receipts  ReceiptService
	logger    logging.Logger
	jwtSecret []byte
}

var _ api.Server = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, svc Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     svc.Users,
		profiles:  svc.Profiles,
		finance:   svc.Finance,
		receipts:  svc.Receipts,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterServer(srv, s)
	return srv
}

// Run listens on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
