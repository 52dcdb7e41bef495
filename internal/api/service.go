// Package api is the wire contract between the client and the server.
//
// There is no generated code: the service descriptor is declared by hand and
// messages travel as JSON through a codec registered under CodecName.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "gophbudget.api.GophBudget"

const (
	MethodPing                   = "Ping"
	MethodRegister               = "Register"
	MethodGetSalt                = "GetSalt"
	MethodLogin                  = "Login"
	MethodFederatedLogin         = "FederatedLogin"
	MethodRefreshToken           = "RefreshToken"
	MethodListBudgets            = "ListBudgets"
	MethodGetBudget              = "GetBudget"
	MethodAddBudget              = "AddBudget"
	MethodUpdateBudget           = "UpdateBudget"
	MethodDeleteBudget           = "DeleteBudget"
	MethodListTransactions       = "ListTransactions"
	MethodGetTransaction         = "GetTransaction"
	MethodAddTransaction         = "AddTransaction"
	MethodUpdateTransaction      = "UpdateTransaction"
	MethodDeleteTransaction      = "DeleteTransaction"
	MethodGetProfile             = "GetProfile"
	MethodSaveProfile            = "SaveProfile"
	MethodDeleteProfile          = "DeleteProfile"
	MethodPresignReceiptUpload   = "PresignReceiptUpload"
	MethodPresignReceiptDownload = "PresignReceiptDownload"
)

// FullMethod returns the "/service/method" path gRPC uses on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var publicMethods = map[string]struct{}{
	FullMethod(MethodPing):           {},
	FullMethod(MethodRegister):       {},
	FullMethod(MethodGetSalt):        {},
	FullMethod(MethodLogin):          {},
	FullMethod(MethodFederatedLogin): {},
	FullMethod(MethodRefreshToken):   {},
}

// IsPublic reports whether fullMethod may be called without an access token.
func IsPublic(fullMethod string) bool {
	_, ok := publicMethods[fullMethod]
	return ok
}

// Server is implemented by the remote store.
type Server interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*Empty, error)
	GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	FederatedLogin(context.Context, *FederatedLoginRequest) (*FederatedLoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)

	ListBudgets(context.Context, *ListRequest) (*ListBudgetsResponse, error)
	GetBudget(context.Context, *IDRequest) (*BudgetMessage, error)
	AddBudget(context.Context, *BudgetMessage) (*Empty, error)
	UpdateBudget(context.Context, *BudgetMessage) (*Empty, error)
	DeleteBudget(context.Context, *IDRequest) (*Empty, error)

	ListTransactions(context.Context, *ListRequest) (*ListTransactionsResponse, error)
	GetTransaction(context.Context, *IDRequest) (*TransactionMessage, error)
	AddTransaction(context.Context, *TransactionMessage) (*Empty, error)
	UpdateTransaction(context.Context, *TransactionMessage) (*Empty, error)
	DeleteTransaction(context.Context, *IDRequest) (*Empty, error)

	GetProfile(context.Context, *Empty) (*ProfileMessage, error)
	SaveProfile(context.Context, *ProfileMessage) (*Empty, error)
	DeleteProfile(context.Context, *Empty) (*Empty, error)

	PresignReceiptUpload(context.Context, *PresignUploadRequest) (*PresignResponse, error)
	PresignReceiptDownload(context.Context, *PresignDownloadRequest) (*PresignResponse, error)
}

// UnimplementedServer can be embedded to satisfy Server partially.
type UnimplementedServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, unimplemented(MethodPing)
}
func (UnimplementedServer) Register(context.Context, *RegisterRequest) (*Empty, error) {
	return nil, unimplemented(MethodRegister)
}
func (UnimplementedServer) GetSalt(context.Context, *GetSaltRequest) (*GetSaltResponse, error) {
	return nil, unimplemented(MethodGetSalt)
}
func (UnimplementedServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedServer) FederatedLogin(context.Context, *FederatedLoginRequest) (*FederatedLoginResponse, error) {
	return nil, unimplemented(MethodFederatedLogin)
}
func (UnimplementedServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, unimplemented(MethodRefreshToken)
}
func (UnimplementedServer) ListBudgets(context.Context, *ListRequest) (*ListBudgetsResponse, error) {
	return nil, unimplemented(MethodListBudgets)
}
func (UnimplementedServer) GetBudget(context.Context, *IDRequest) (*BudgetMessage, error) {
	return nil, unimplemented(MethodGetBudget)
}
func (UnimplementedServer) AddBudget(context.Context, *BudgetMessage) (*Empty, error) {
	return nil, unimplemented(MethodAddBudget)
}
func (UnimplementedServer) UpdateBudget(context.Context, *BudgetMessage) (*Empty, error) {
	return nil, unimplemented(MethodUpdateBudget)
}
func (UnimplementedServer) DeleteBudget(context.Context, *IDRequest) (*Empty, error) {
	return nil, unimplemented(MethodDeleteBudget)
}
func (UnimplementedServer) ListTransactions(context.Context, *ListRequest) (*ListTransactionsResponse, error) {
	return nil, unimplemented(MethodListTransactions)
}
func (UnimplementedServer) GetTransaction(context.Context, *IDRequest) (*TransactionMessage, error) {
	return nil, unimplemented(MethodGetTransaction)
}
func (UnimplementedServer) AddTransaction(context.Context, *TransactionMessage) (*Empty, error) {
	return nil, unimplemented(MethodAddTransaction)
}
func (UnimplementedServer) UpdateTransaction(context.Context, *TransactionMessage) (*Empty, error) {
	return nil, unimplemented(MethodUpdateTransaction)
}
func (UnimplementedServer) DeleteTransaction(context.Context, *IDRequest) (*Empty, error) {
	return nil, unimplemented(MethodDeleteTransaction)
}
func (UnimplementedServer) GetProfile(context.Context, *Empty) (*ProfileMessage, error) {
	return nil, unimplemented(MethodGetProfile)
}
func (UnimplementedServer) SaveProfile(context.Context, *ProfileMessage) (*Empty, error) {
	return nil, unimplemented(MethodSaveProfile)
}
func (UnimplementedServer) DeleteProfile(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented(MethodDeleteProfile)
}
func (UnimplementedServer) PresignReceiptUpload(context.Context, *PresignUploadRequest) (*PresignResponse, error) {
	return nil, unimplemented(MethodPresignReceiptUpload)
}
func (UnimplementedServer) PresignReceiptDownload(context.Context, *PresignDownloadRequest) (*PresignResponse, error) {
	return nil, unimplemented(MethodPresignReceiptDownload)
}

// unary adapts a typed Server method to a grpc.MethodDesc, routing the call
// through the server interceptor chain when one is installed.
func unary[Req, Resp any](method string, call func(Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, Server.Ping),
		unary(MethodRegister, Server.Register),
		unary(MethodGetSalt, Server.GetSalt),
		unary(MethodLogin, Server.Login),
		unary(MethodFederatedLogin, Server.FederatedLogin),
		unary(MethodRefreshToken, Server.RefreshToken),
		unary(MethodListBudgets, Server.ListBudgets),
		unary(MethodGetBudget, Server.GetBudget),
		unary(MethodAddBudget, Server.AddBudget),
		unary(MethodUpdateBudget, Server.UpdateBudget),
		unary(MethodDeleteBudget, Server.DeleteBudget),
		unary(MethodListTransactions, Server.ListTransactions),
		unary(MethodGetTransaction, Server.GetTransaction),
		unary(MethodAddTransaction, Server.AddTransaction),
		unary(MethodUpdateTransaction, Server.UpdateTransaction),
		unary(MethodDeleteTransaction, Server.DeleteTransaction),
		unary(MethodGetProfile, Server.GetProfile),
		unary(MethodSaveProfile, Server.SaveProfile),
		unary(MethodDeleteProfile, Server.DeleteProfile),
		unary(MethodPresignReceiptUpload, Server.PresignReceiptUpload),
		unary(MethodPresignReceiptDownload, Server.PresignReceiptDownload),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophbudget/api",
}

func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&ServiceDesc, srv)
}
