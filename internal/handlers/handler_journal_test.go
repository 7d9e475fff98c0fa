package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const loanEntryJSON = `{
	"entryDate": "2025-01-10",
	"description": "Loan disbursement #42",
	"reference": "LN-42",
	"lines": [
		{"accountCode": "1310", "debit": "1000000"},
		{"accountCode": "1110", "credit": "1000000"}
	]
}`

var million = decimal.NewFromInt(1000000)

func loanEntry(status domain.JournalStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:     "entry-1",
		TenantID:    testTenantID,
		EntryNumber: "JE-2025-000001",
		EntryDate:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Description: "Loan disbursement #42",
		Reference:   "LN-42",
		Source:      domain.SourceManual,
		Status:      status,
		TotalDebit:  million,
		TotalCredit: million,
		Version:     1,
		Lines: []domain.JournalLine{
			{LineID: "l1", EntryID: "entry-1", LineNo: 1, AccountCode: "1310", DebitAmount: million, CreditAmount: decimal.Zero},
			{LineID: "l2", EntryID: "entry-1", LineNo: 2, AccountCode: "1110", DebitAmount: decimal.Zero, CreditAmount: million},
		},
	}
}

func matchLoanHeader() interface{} {
	return mock.MatchedBy(func(h domain.JournalHeader) bool {
		return h.EntryDate.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)) &&
			h.Description == "Loan disbursement #42" &&
			h.Source == domain.SourceManual &&
			h.EventType == nil
	})
}

func matchLoanLines() interface{} {
	return mock.MatchedBy(func(lines []domain.LineInput) bool {
		return len(lines) == 2 &&
			lines[0].AccountCode == "1310" && lines[0].Debit.Equal(million) && lines[0].Credit.IsZero() &&
			lines[1].AccountCode == "1110" && lines[1].Credit.Equal(million) && lines[1].Debit.IsZero()
	})
}

func (suite *HandlerTestSuite) TestCreateJournal() {
	suite.mockJournalService.On("CreateJournal", mock.Anything, testLC, matchLoanHeader(), matchLoanLines()).
		Return(loanEntry(domain.Draft), nil).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals", loanEntryJSON)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var entry dto.JournalResponse
	suite.decode(w, &entry)
	suite.Equal("JE-2025-000001", entry.EntryNumber)
	suite.Equal("2025-01-10", entry.EntryDate)
	suite.Equal(domain.Draft, entry.Status)
	suite.Len(entry.Lines, 2)
}

func (suite *HandlerTestSuite) TestCreateJournal_Unbalanced() {
	suite.mockJournalService.On("CreateJournal", mock.Anything, testLC, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: debits 1000000 != credits 900000", apperrors.ErrUnbalancedEntry)).Once()

	body := `{"entryDate":"2025-01-10","description":"Loan disbursement #42","lines":[{"accountCode":"1310","debit":1000000},{"accountCode":"1110","credit":900000}]}`
	w := suite.doJSON(http.MethodPost, "/api/v1/journals", body)

	suite.assertErrorCode(w, http.StatusUnprocessableEntity, "UNBALANCED_ENTRY")
}

func (suite *HandlerTestSuite) TestCreateJournal_UnknownAccount() {
	suite.mockJournalService.On("CreateJournal", mock.Anything, testLC, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewLineError(1, "9999", apperrors.ErrAccountNotFound, "")).Once()

	w := suite.doJSON(http.MethodPost, "/api/v1/journals", loanEntryJSON)

	suite.assertErrorCode(w, http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND")
}

func (suite *HandlerTestSuite) TestCreateJournal_RejectedBeforeService() {
	cases := map[string]string{
		"negative amount": `{"entryDate":"2025-01-10","description":"x","lines":[{"accountCode":"1110","debit":"-5"}]}`,
		"no lines":        `{"entryDate":"2025-01-10","description":"x","lines":[]}`,
		"bad date":        `{"entryDate":"10/01/2025","description":"x","lines":[{"accountCode":"1110","debit":"5"}]}`,
		"bad code":        `{"entryDate":"2025-01-10","description":"x","lines":[{"accountCode":"11 10","debit":"5"}]}`,
		"not json":        `entryDate=2025-01-10`,
	}
	for name, body := range cases {
		suite.Run(name, func() {
			w := suite.doJSON(http.MethodPost, "/api/v1/journals", body)
			suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
	suite.mockJournalService.AssertNotCalled(suite.T(), "CreateJournal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func loanForm() url.Values {
	return url.Values{
		"transaction_date":    {"2025-01-10"},
		"description":         {"Loan disbursement #42"},
		"reference_number":    {"LN-42"},
		"account_code[]":      {"1310", "1110", ""},
		"debit[]":             {"1000000", "", ""},
		"credit[]":            {"", "1000000", ""},
		"entry_description[]": {"", "", ""},
	}
}

func (suite *HandlerTestSuite) TestCreateJournalFromForm_PostsAndRedirects() {
	form := loanForm()
	form.Set("status", "posted")
	form.Set("redirect_to", "/journals/new")

	suite.mockJournalService.On("CreateJournal", mock.Anything, testLC, matchLoanHeader(), matchLoanLines()).
		Return(loanEntry(domain.Draft), nil).Once()
	suite.mockJournalService.On("Post", mock.Anything, testLC, "entry-1").
		Return(loanEntry(domain.Posted), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/form", "application/x-www-form-urlencoded", form.Encode())

	suite.Equal(http.StatusSeeOther, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	suite.Require().NoError(err)
	suite.Equal("/journals/new", location.Path)
	suite.Equal("entry-1", location.Query().Get("entry_id"))
	suite.Equal("JE-2025-000001", location.Query().Get("entry_number"))
}

func (suite *HandlerTestSuite) TestCreateJournalFromForm_DraftAsJSON() {
	suite.mockJournalService.On("CreateJournal", mock.Anything, testLC, matchLoanHeader(), matchLoanLines()).
		Return(loanEntry(domain.Draft), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/form", "application/x-www-form-urlencoded", loanForm().Encode())

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.mockJournalService.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateJournalFromForm_FailureRedirectsWithCode() {
	form := loanForm()
	form.Set("redirect_to", "/journals/new?tab=manual")
	suite.mockJournalService.On("CreateJournal", mock.Anything, testLC, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewLineError(0, "1310", apperrors.ErrAccountNotFound, "inactive")).Once()

	w := suite.do(http.MethodPost, "/api/v1/journals/form", "application/x-www-form-urlencoded", form.Encode())

	suite.Equal(http.StatusSeeOther, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	suite.Require().NoError(err)
	suite.Equal("manual", location.Query().Get("tab"))
	suite.Equal("ACCOUNT_NOT_FOUND", location.Query().Get("error"))
}

func (suite *HandlerTestSuite) TestCreateJournalFromForm_BadAmount() {
	form := loanForm()
	form["debit[]"] = []string{"one million", "", ""}

	w := suite.do(http.MethodPost, "/api/v1/journals/form", "application/x-www-form-urlencoded", form.Encode())

	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *HandlerTestSuite) TestListJournals() {
	next := "token-2"
	suite.mockJournalService.On("ListJournals", mock.Anything, testLC, mock.MatchedBy(func(p domain.ListJournalsParams) bool {
		return p.Status != nil && *p.Status == domain.Posted && p.Limit == 5 && p.NextToken == nil
	})).Return([]domain.JournalEntry{*loanEntry(domain.Posted)}, &next, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/journals?status=posted&limit=5", "")

	suite.Equal(http.StatusOK, w.Code)
	var page dto.ListJournalsResponse
	suite.decode(w, &page)
	suite.Len(page.Journals, 1)
	suite.Require().NotNil(page.NextToken)
	suite.Equal("token-2", *page.NextToken)
}

func (suite *HandlerTestSuite) TestListJournals_InvalidLimit() {
	w := suite.doJSON(http.MethodGet, "/api/v1/journals?limit=1000", "")
	suite.assertErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *HandlerTestSuite) TestUpdateDraft_NotDraft() {
	suite.mockJournalService.On("UpdateDraft", mock.Anything, testLC, "entry-1", matchLoanHeader(), matchLoanLines()).
		Return(nil, apperrors.ErrAlreadyPosted).Once()

	w := suite.doJSON(http.MethodPut, "/api/v1/journals/entry-1", loanEntryJSON)

	suite.assertErrorCode(w, http.StatusConflict, "ALREADY_POSTED")
}

func (suite *HandlerTestSuite) TestLifecycleTransitions() {
	suite.Run("post", func() {
		suite.mockJournalService.On("Post", mock.Anything, testLC, "entry-1").Return(loanEntry(domain.Posted), nil).Once()
		w := suite.doJSON(http.MethodPost, "/api/v1/journals/entry-1/post", "")
		suite.Equal(http.StatusOK, w.Code)
	})

	suite.Run("second post is rejected", func() {
		suite.mockJournalService.On("Post", mock.Anything, testLC, "entry-2").Return(nil, apperrors.ErrAlreadyPosted).Once()
		w := suite.doJSON(http.MethodPost, "/api/v1/journals/entry-2/post", "")
		suite.assertErrorCode(w, http.StatusConflict, "ALREADY_POSTED")
	})

	suite.Run("void an already void entry", func() {
		suite.mockJournalService.On("Void", mock.Anything, testLC, "entry-3").
			Return(nil, fmt.Errorf("%w: entry is VOID", apperrors.ErrConflict)).Once()
		w := suite.doJSON(http.MethodPost, "/api/v1/journals/entry-3/void", "")
		suite.assertErrorCode(w, http.StatusConflict, "CONFLICT")
	})

	suite.Run("reverse returns the new entry", func() {
		reversal := loanEntry(domain.Posted)
		reversal.EntryID = "entry-9"
		reversal.Description = "Reversal of JE-2025-000001"
		original := "entry-1"
		reversal.ReversalOfID = &original
		suite.mockJournalService.On("Reverse", mock.Anything, testLC, "entry-1").Return(reversal, nil).Once()

		w := suite.doJSON(http.MethodPost, "/api/v1/journals/entry-1/reverse", "")

		suite.Equal(http.StatusCreated, w.Code)
		var entry dto.JournalResponse
		suite.decode(w, &entry)
		suite.Equal("entry-9", entry.EntryID)
		suite.Require().NotNil(entry.ReversalOfID)
		suite.Equal("entry-1", *entry.ReversalOfID)
	})
}

func (suite *HandlerTestSuite) TestGetJournal_InternalErrorIsHidden() {
	suite.mockJournalService.On("GetJournal", mock.Anything, testLC, "entry-1").
		Return(nil, apperrors.NewAppError(500, "failed to access journal entry", errors.New("connection reset"))).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/journals/entry-1", "")

	suite.assertErrorCode(w, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR")
	suite.NotContains(w.Body.String(), "connection reset")
}

func (suite *HandlerTestSuite) TestGetAuditTrail() {
	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	suite.mockJournalService.On("GetAuditTrail", mock.Anything, testLC, "entry-1").Return([]domain.AuditRecord{
		{TenantID: testTenantID, EntryID: "entry-1", Action: domain.AuditCreated, ActorID: testUserID, At: at},
		{TenantID: testTenantID, EntryID: "entry-1", Action: domain.AuditPosted, ActorID: "user-2", At: at.Add(time.Hour)},
	}, nil).Once()

	w := suite.doJSON(http.MethodGet, "/api/v1/journals/entry-1/audit", "")

	suite.Equal(http.StatusOK, w.Code)
	var records []dto.AuditRecordResponse
	suite.decode(w, &records)
	suite.Require().Len(records, 2)
	suite.Equal(domain.AuditPosted, records[1].Action)
}
