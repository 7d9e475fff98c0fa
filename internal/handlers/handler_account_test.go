package handlers_test

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func cashAccount() domain.Account {
	parent := "1100"
	return domain.Account{TenantID: testTenantID, Code: "1110", Name: "Cash on Hand", AccountType: domain.Asset, ParentCode: &parent, IsActive: true}
}

func (suite *HandlerTestSuite) TestGetHierarchy() {
	cash := cashAccount()
	roots := []*domain.AccountNode{{
		Account:  domain.Account{Code: "1000", Name: "Assets", AccountType: domain.Asset, IsActive: true},
		Children: []*domain.AccountNode{{Account: cash, Depth: 1}},
	}}
	suite.mockAccountService.On("GetHierarchy", mock.Anything, testLC).Return(roots, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/accounts/tree", "")

	suite.Equal(http.StatusOK, w.Code)
	var tree []dto.AccountNodeResponse
	suite.decode(w, &tree)
	suite.Require().Len(tree, 1)
	suite.Equal("1000", tree[0].Code)
	suite.Require().Len(tree[0].Children, 1)
	suite.Equal("1110", tree[0].Children[0].Code)
	suite.Equal("DEBIT", tree[0].Children[0].NormalBalance)
}

func (suite *HandlerTestSuite) TestListActiveAccounts() {
	suite.mockAccountService.On("GetActiveAccounts", mock.Anything, testLC).Return([]domain.Account{cashAccount()}, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/accounts", "")

	suite.Equal(http.StatusOK, w.Code)
	var accounts []dto.AccountResponse
	suite.decode(w, &accounts)
	suite.Require().Len(accounts, 1)
	suite.Equal("Cash on Hand", accounts[0].Name)
}

func (suite *HandlerTestSuite) TestSearchAccounts() {
	suite.Run("requires a query", func() {
		w := suite.doJSON(http.MethodGet, "/api/v1/accounts/search", "")
		suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	suite.Run("returns matches", func() {
		suite.mockAccountService.On("Search", mock.Anything, testLC, "cash").Return([]domain.Account{cashAccount()}, nil).Once()

		w := suite.doJSON(http.MethodGet, "/api/v1/accounts/search?q=cash", "")

		suite.Equal(http.StatusOK, w.Code)
		var accounts []dto.AccountResponse
		suite.decode(w, &accounts)
		suite.Len(accounts, 1)
	})
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("FindByCode", mock.Anything, testLC, "9999").
		Return(nil, fmt.Errorf("account 9999: %w", apperrors.ErrNotFound)).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/accounts/9999", "")

	suite.assertErrorCode(w, http.StatusNotFound, "NOT_FOUND")
}

func (suite *HandlerTestSuite) TestSetAccountActive() {
	inactive := cashAccount()
	inactive.IsActive = false
	suite.mockAccountService.On("SetActive", mock.Anything, testLC, "1110", false).Return(&inactive, nil).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/accounts/1110/active", `{"active": false}`)

	suite.Equal(http.StatusOK, w.Code)
	var account dto.AccountResponse
	suite.decode(w, &account)
	suite.False(account.IsActive)
}

func (suite *HandlerTestSuite) TestSetAccountActive_RequiresFlag() {
	w := suite.doJSON(http.MethodPut, "/api/v1/accounts/1110/active", `{}`)

	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.mockAccountService.AssertNotCalled(suite.T(), "SetActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestSetAccountActive_Forbidden() {
	suite.mockAccountService.On("SetActive", mock.Anything, testLC, "1110", true).
		Return(nil, fmt.Errorf("%w: requires ADMIN", apperrors.ErrForbidden)).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/accounts/1110/active", `{"active": true}`)

	suite.assertErrorCode(w, http.StatusForbidden, "FORBIDDEN")
}
