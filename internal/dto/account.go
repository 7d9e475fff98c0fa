package dto

import (
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
)

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"accountType"`
	NormalBalance string             `json:"normalBalance"`
	ParentCode    *string            `json:"parentCode,omitempty"`
	Description   string             `json:"description"`
	IsActive      bool               `json:"isActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// AccountNodeResponse is one node of the chart of accounts tree.
type AccountNodeResponse struct {
	AccountResponse
	Depth    int                   `json:"depth"`
	Children []AccountNodeResponse `json:"children,omitempty"`
}

// SetAccountActiveRequest toggles whether an account accepts postings.
type SetAccountActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SearchAccountsParams binds the account search query string.
type SearchAccountsParams struct {
	Query string `form:"q" binding:"required"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		NormalBalance: string(acc.NormalBalance()),
		ParentCode:    acc.ParentCode,
		Description:   acc.Description,
		IsActive:      acc.IsActive,
		CreatedAt:     acc.CreatedAt,
		CreatedBy:     acc.CreatedBy,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}

// ToAccountTreeResponse converts the hierarchy roots recursively.
func ToAccountTreeResponse(nodes []*domain.AccountNode) []AccountNodeResponse {
	out := make([]AccountNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, AccountNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Depth:           n.Depth,
			Children:        ToAccountTreeResponse(n.Children),
		})
	}
	return out
}
