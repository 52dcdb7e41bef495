package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/api"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{ServerTime: time.Now().UTC()}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.Empty, error) {
	s.logger.Info(ctx, "Registration request", "username", req.Username)

	user, err := s.users.Register(ctx, req.Username, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username, "user_id", user.ID)
	return &api.Empty{}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *api.GetSaltRequest) (*api.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Username)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.Verifier)
	if err != nil {
		s.logger.Warn(ctx, "Login failed", "username", req.Username, "error", err)
		return nil, s.toStatus(ctx, err)
	}
	return &api.LoginResponse{UserID: tokens.UserID, AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) FederatedLogin(ctx context.Context, req *api.FederatedLoginRequest) (*api.FederatedLoginResponse, error) {
	res, err := s.users.LoginWithGoogle(ctx, req.IDToken)
	if err != nil {
		s.logger.Warn(ctx, "Google sign-in failed", "error", err)
		return nil, s.toStatus(ctx, err)
	}
	if res.IsNewUser {
		s.logger.Info(ctx, "Federated account created", "user_id", res.UserID)
	}
	return &api.FederatedLoginResponse{
		UserID:       res.UserID,
		Email:        res.Identity.Email,
		DisplayName:  res.Identity.DisplayName,
		PhotoURL:     res.Identity.PhotoURL,
		IsNewUser:    res.IsNewUser,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *api.Empty) (*api.ProfileMessage, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.ProfileMessage{Profile: profileToAPI(*p)}, nil
}

func (s *GRPCServer) SaveProfile(ctx context.Context, req *api.ProfileMessage) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, userID, profileFromAPI(req.Profile)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) DeleteProfile(ctx context.Context, req *api.Empty) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) PresignReceiptUpload(ctx context.Context, req *api.PresignUploadRequest) (*api.PresignResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.receipts.PresignUpload(ctx, userID, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PresignResponse{URL: url, Key: key}, nil
}

func (s *GRPCServer) PresignReceiptDownload(ctx context.Context, req *api.PresignDownloadRequest) (*api.PresignResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	url, err := s.receipts.PresignDownload(ctx, userID, req.Key)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.PresignResponse{URL: url, Key: req.Key}, nil
}
