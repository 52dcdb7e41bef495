package api

import (
	"context"

	"google.golang.org/grpc"
)

// Client is the typed client side of ServiceDesc.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts...)
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRegister, in, opts...)
}

func (c *Client) GetSalt(ctx context.Context, in *GetSaltRequest, opts ...grpc.CallOption) (*GetSaltResponse, error) {
	return invoke[GetSaltResponse](ctx, c.cc, MethodGetSalt, in, opts...)
}

func (c *Client) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *Client) FederatedLogin(ctx context.Context, in *FederatedLoginRequest, opts ...grpc.CallOption) (*FederatedLoginResponse, error) {
	return invoke[FederatedLoginResponse](ctx, c.cc, MethodFederatedLogin, in, opts...)
}

func (c *Client) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts...)
}

func (c *Client) ListBudgets(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListBudgetsResponse, error) {
	return invoke[ListBudgetsResponse](ctx, c.cc, MethodListBudgets, in, opts...)
}

func (c *Client) GetBudget(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*BudgetMessage, error) {
	return invoke[BudgetMessage](ctx, c.cc, MethodGetBudget, in, opts...)
}

func (c *Client) AddBudget(ctx context.Context, in *BudgetMessage, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodAddBudget, in, opts...)
}

func (c *Client) UpdateBudget(ctx context.Context, in *BudgetMessage, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateBudget, in, opts...)
}

func (c *Client) DeleteBudget(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteBudget, in, opts...)
}

func (c *Client) ListTransactions(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, MethodListTransactions, in, opts...)
}

func (c *Client) GetTransaction(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*TransactionMessage, error) {
	return invoke[TransactionMessage](ctx, c.cc, MethodGetTransaction, in, opts...)
}

func (c *Client) AddTransaction(ctx context.Context, in *TransactionMessage, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodAddTransaction, in, opts...)
}

func (c *Client) UpdateTransaction(ctx context.Context, in *TransactionMessage, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodUpdateTransaction, in, opts...)
}

func (c *Client) DeleteTransaction(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteTransaction, in, opts...)
}

func (c *Client) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProfileMessage, error) {
	return invoke[ProfileMessage](ctx, c.cc, MethodGetProfile, in, opts...)
}

func (c *Client) SaveProfile(ctx context.Context, in *ProfileMessage, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodSaveProfile, in, opts...)
}

func (c *Client) DeleteProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteProfile, in, opts...)
}

func (c *Client) PresignReceiptUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignResponse, error) {
	return invoke[PresignResponse](ctx, c.cc, MethodPresignReceiptUpload, in, opts...)
}

func (c *Client) PresignReceiptDownload(ctx context.Context, in *PresignDownloadRequest, opts ...grpc.CallOption) (*PresignResponse, error) {
	return invoke[PresignResponse](ctx, c.cc, MethodPresignReceiptDownload, in, opts...)
}
