package handlers_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func eventEntry(id string) *domain.JournalEntry {
	entry := loanEntry(domain.Draft)
	entry.EntryID = id
	entry.Source = domain.SourceEvent
	return entry
}

func (suite *HandlerTestSuite) TestJournalizeEvent() {
	trigger := domain.EventTrigger{Type: domain.EventLoanDisbursement, ReferenceID: "LN-42"}

	suite.Run("first delivery creates", func() {
		suite.mockEventService.On("BuildFromEvent", mock.Anything, testLC, trigger).
			Return(&domain.EventResult{Entry: eventEntry("entry-1"), Created: true}, nil).Once()

		w := suite.doJSON(http.MethodPost, "/api/v1/events", `{"type":"loan_disbursement","reference_id":"LN-42"}`)

		suite.Equal(http.StatusCreated, w.Code)
		var resp dto.EventResponse
		suite.decode(w, &resp)
		suite.True(resp.Created)
		suite.Equal(domain.SourceEvent, resp.Entry.Source)
	})

	suite.Run("repeat returns the existing entry", func() {
		suite.mockEventService.On("BuildFromEvent", mock.Anything, testLC, trigger).
			Return(&domain.EventResult{Entry: eventEntry("entry-1"), Created: false}, nil).Once()

		w := suite.doJSON(http.MethodPost, "/api/v1/events", `{"type":"loan_disbursement","reference_id":"LN-42"}`)

		suite.Equal(http.StatusOK, w.Code)
		var resp dto.EventResponse
		suite.decode(w, &resp)
		suite.False(resp.Created)
		suite.Equal("entry-1", resp.Entry.EntryID)
	})
}

func (suite *HandlerTestSuite) TestJournalizeEvent_Invalid() {
	w := suite.doJSON(http.MethodPost, "/api/v1/events", `{"type":"payroll","reference_id":"P-1"}`)

	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.mockEventService.AssertNotCalled(suite.T(), "BuildFromEvent", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestJournalizeEvent_SourceMissing() {
	suite.mockEventService.On("BuildFromEvent", mock.Anything, testLC, domain.EventTrigger{Type: domain.EventRepayment, ReferenceID: "RP-404"}).
		Return(nil, fmt.Errorf("repayment RP-404: %w", apperrors.ErrNotFound)).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/events", `{"type":"repayment","reference_id":"RP-404"}`)

	suite.assertErrorCode(w, http.StatusNotFound, "NOT_FOUND")
}

func (suite *HandlerTestSuite) TestJournalizeBatch() {
	suite.mockEventService.On("BuildFromEvent", mock.Anything, testLC, domain.EventTrigger{Type: domain.EventSavingsDeposit, ReferenceID: "DP-1"}).
		Return(&domain.EventResult{Entry: eventEntry("entry-5"), Created: true}, nil).Once()
	suite.mockEventService.On("BuildFromEvent", mock.Anything, testLC, domain.EventTrigger{Type: domain.EventRepayment, ReferenceID: "RP-404"}).
		Return(nil, fmt.Errorf("repayment RP-404: %w", apperrors.ErrNotFound)).Once()
	suite.mockEventService.On("BuildFromEvent", mock.Anything, testLC, domain.EventTrigger{Type: domain.EventLoanDisbursement, ReferenceID: "LN-9"}).
		Return(nil, errors.New("connection refused")).Once()

	body := `{"events":[
		{"type":"savings_deposit","reference_id":"DP-1"},
		{"type":"repayment","reference_id":"RP-404"},
		{"type":"loan_disbursement","reference_id":"LN-9"}
	]}`
	w := suite.doJSON(http.MethodPost, "/api/v1/events/batch", body)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.BatchEventResponse
	suite.decode(w, &resp)
	suite.Equal(1, resp.Succeeded)
	suite.Equal(2, resp.Failed)
	suite.Require().Len(resp.Results, 3)

	suite.Equal("DP-1", resp.Results[0].ReferenceID)
	suite.True(resp.Results[0].Created)
	suite.Require().NotNil(resp.Results[0].EntryID)
	suite.Equal("entry-5", *resp.Results[0].EntryID)

	suite.Equal("NOT_FOUND", resp.Results[1].ErrorCode)

	suite.Equal("INTERNAL_SERVER_ERROR", resp.Results[2].ErrorCode)
	suite.NotContains(resp.Results[2].ErrorMessage, "connection refused")
}

func (suite *HandlerTestSuite) TestJournalizeBatch_Empty() {
	w := suite.doJSON(http.MethodPost, "/api/v1/events/batch", `{"events":[]}`)
	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
}
