package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/api"
)

func (s *GRPCServer) ListBudgets(ctx context.Context, req *api.ListRequest) (*api.ListBudgetsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.finance.ListBudgets(ctx, filterFromAPI(userID, req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &api.ListBudgetsResponse{Budgets: make([]api.Budget, 0, len(items))}
	for _, b := range items {
		resp.Budgets = append(resp.Budgets, budgetToAPI(b))
	}
	return resp, nil
}

func (s *GRPCServer) GetBudget(ctx context.Context, req *api.IDRequest) (*api.BudgetMessage, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.finance.GetBudget(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.BudgetMessage{Budget: budgetToAPI(*b)}, nil
}

func (s *GRPCServer) AddBudget(ctx context.Context, req *api.BudgetMessage) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.finance.AddBudget(ctx, userID, budgetFromAPI(req.Budget)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) UpdateBudget(ctx context.Context, req *api.BudgetMessage) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.finance.UpdateBudget(ctx, userID, budgetFromAPI(req.Budget)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) DeleteBudget(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.finance.DeleteBudget(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) ListTransactions(ctx context.Context, req *api.ListRequest) (*api.ListTransactionsResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.finance.ListTransactions(ctx, req.Kind, filterFromAPI(userID, req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	resp := &api.ListTransactionsResponse{Transactions: make([]api.Transaction, 0, len(items))}
	for _, t := range items {
		resp.Transactions = append(resp.Transactions, transactionToAPI(t))
	}
	return resp, nil
}

func (s *GRPCServer) GetTransaction(ctx context.Context, req *api.IDRequest) (*api.TransactionMessage, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.finance.GetTransaction(ctx, userID, req.Kind, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.TransactionMessage{Transaction: transactionToAPI(*t)}, nil
}

func (s *GRPCServer) AddTransaction(ctx context.Context, req *api.TransactionMessage) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.finance.AddTransaction(ctx, userID, transactionFromAPI(req.Transaction)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) UpdateTransaction(ctx context.Context, req *api.TransactionMessage) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.finance.UpdateTransaction(ctx, userID, transactionFromAPI(req.Transaction)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) DeleteTransaction(ctx context.Context, req *api.IDRequest) (*api.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.finance.DeleteTransaction(ctx, userID, req.Kind, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}
