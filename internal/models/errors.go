package models

import "errors"

// Kind класс ошибки, определяющий HTTP статус ответа.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindUnprocessable
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindTooMany
)

// CodedError бизнес-ошибка с машинным кодом, который уходит клиенту в поле error.
type CodedError struct {
	Kind    Kind
	Code    string
	Details string
}

// NewError создаёт кодированную ошибку.
func NewError(kind Kind, code string) *CodedError {
	return &CodedError{Kind: kind, Code: code}
}

func (e *CodedError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Details
	}
	return e.Code
}

// Is сравнивает ошибки по коду, детали не учитываются.
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	return ok && t.Code == e.Code
}

// WithDetails возвращает копию ошибки с пояснением.
func (e *CodedError) WithDetails(details string) *CodedError {
	c := *e
	c.Details = details
	return &c
}

// Ошибки хранилища.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

// Доступ.
var (
	ErrNotAuthenticated   = NewError(KindUnauthenticated, "NOT_AUTHENTICATED")
	ErrForbidden          = NewError(KindForbidden, "FORBIDDEN")
	ErrInvalidCredentials = NewError(KindUnauthenticated, "INVALID_CREDENTIALS")
	ErrInvalidToken       = NewError(KindUnauthenticated, "INVALID_TOKEN")
	ErrWeakPassword       = NewError(KindInvalid, "WEAK_PASSWORD")
	ErrTooManyRequests    = NewError(KindTooMany, "TOO_MANY_REQUESTS")
	ErrInvalidBody        = NewError(KindInvalid, "INVALID_BODY")
	ErrValidation         = NewError(KindUnprocessable, "VALIDATION_FAILED")
	ErrNotFound           = NewError(KindNotFound, "NOT_FOUND")
)

// Участники и профили.
var (
	ErrMissingEmail    = NewError(KindInvalid, "MISSING_EMAIL")
	ErrInvalidEmail    = NewError(KindInvalid, "INVALID_EMAIL")
	ErrInvalidRole     = NewError(KindInvalid, "INVALID_ROLE")
	ErrMissingUserID   = NewError(KindInvalid, "MISSING_USER_ID")
	ErrProfileNotFound = NewError(KindNotFound, "PROFILE_NOT_FOUND")
	ErrInvalidMemberID = NewError(KindInvalid, "INVALID_MEMBER_ID")
	ErrInvalidPhoto    = NewError(KindInvalid, "INVALID_PHOTO")
)

// Абонементы.
var (
	ErrInvalidPlan       = NewError(KindInvalid, "INVALID_PLAN")
	ErrStartDateRequired = NewError(KindInvalid, "START_DATE_REQUIRED")
	ErrInvalidDate       = NewError(KindUnprocessable, "INVALID_DATE")
	ErrInvalidAction     = NewError(KindInvalid, "INVALID_ACTION")
	ErrInvalidAmount     = NewError(KindInvalid, "INVALID_AMOUNT")
	ErrNoSubscription    = NewError(KindNotFound, "NO_SUBSCRIPTION")
)

// Сканирование.
var (
	ErrMissingQR = NewError(KindInvalid, "MISSING_QR")
	ErrInvalidQR = NewError(KindNotFound, "INVALID_QR")
)

// Магазин.
var (
	ErrNoItems          = NewError(KindInvalid, "NO_ITEMS")
	ErrNoValidItems     = NewError(KindInvalid, "NO_VALID_ITEMS")
	ErrProductsNotFound = NewError(KindInvalid, "PRODUCTS_NOT_FOUND")
	ErrProductInactive  = NewError(KindInvalid, "PRODUCT_INACTIVE")
	ErrNoSellableItems  = NewError(KindInvalid, "NO_SELLABLE_ITEMS")
	ErrMissingOrderID   = NewError(KindInvalid, "MISSING_ORDER_ID")
	ErrInvalidStatus    = NewError(KindInvalid, "INVALID_STATUS")
	ErrOrderNotFound    = NewError(KindNotFound, "ORDER_NOT_FOUND")
	ErrMissingID        = NewError(KindInvalid, "MISSING_ID")
	ErrInvalidCategory  = NewError(KindInvalid, "INVALID_CATEGORY")
	ErrInvalidPrice     = NewError(KindInvalid, "INVALID_PRICE")
	ErrInvalidInventory = NewError(KindInvalid, "INVALID_INVENTORY")
	ErrNoFieldsToUpdate = NewError(KindInvalid, "NO_FIELDS_TO_UPDATE")
	ErrMissingName      = NewError(KindInvalid, "MISSING_NAME")
	ErrProductNotFound  = NewError(KindNotFound, "PRODUCT_NOT_FOUND")
	ErrInvalidInput     = NewError(KindInvalid, "INVALID_INPUT")
)

// Уведомления.
var (
	ErrMissingBody       = NewError(KindInvalid, "MISSING_BODY")
	ErrInvalidAudience   = NewError(KindInvalid, "INVALID_AUDIENCE")
	ErrNoRecipients      = NewError(KindInvalid, "NO_RECIPIENTS")
	ErrNoIDs             = NewError(KindInvalid, "NO_IDS")
	ErrMissingMessage    = NewError(KindInvalid, "MISSING_MESSAGE")
	ErrNoStaffRecipients = NewError(KindInvalid, "NO_SUPER_ADMINS_OR_ADMINS")
)

// Заморозка.
var (
	ErrReasonTooShort = NewError(KindUnprocessable, "REASON_TOO_SHORT")
	ErrPendingExists  = NewError(KindConflict, "PENDING_EXISTS")
	ErrNotPending     = NewError(KindConflict, "NOT_PENDING")
)

// Акции и расходы.
var (
	ErrMissingTitle       = NewError(KindInvalid, "MISSING_TITLE")
	ErrInvalidDiscount    = NewError(KindInvalid, "INVALID_DISCOUNT")
	ErrInvalidAppliesTo   = NewError(KindInvalid, "INVALID_APPLIES_TO")
	ErrInvalidDateRange   = NewError(KindInvalid, "INVALID_DATE_RANGE")
	ErrPromotionNotFound  = NewError(KindNotFound, "PROMOTION_NOT_FOUND")
	ErrUnknownCategory    = NewError(KindInvalid, "UNKNOWN_CATEGORY")
	ErrCategoryExists     = NewError(KindConflict, "CATEGORY_EXISTS")
	ErrInvalidCategoryKey = NewError(KindInvalid, "INVALID_CATEGORY_KEY")
	ErrExpenseNotFound    = NewError(KindNotFound, "EXPENSE_NOT_FOUND")
	ErrMissingDescription = NewError(KindInvalid, "MISSING_DESCRIPTION")
)

// Отчёты.
var (
	ErrInvalidType  = NewError(KindInvalid, "INVALID_TYPE")
	ErrInvalidRange = NewError(KindInvalid, "INVALID_RANGE")
)
