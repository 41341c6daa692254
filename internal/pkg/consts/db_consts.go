package consts

const (
	ClassFeeAmountsCollection            = "classFeeAmounts"
	StandardFeesCollection               = "standardFees"
	FeeChalansCollection                 = "feeChalans"
	FeePaymentEventsCollection           = "feePaymentEvents"
	ChalanGenerationInProgressCollection = "chalanGenerationsInProgress"
	StandardFeesDocumentID               = "standard"
)

const (
	DuplicateKeyErrorCode          = 11000
	WriteConflictErrorCode         = 112
	IndexOptionsConflictErrorCode  = 85
	IndexKeySpecsConflictErrorCode = 86
	TransientTransactionErrorLabel = "TransientTransactionError"
)

const GenerationMarkerTTLIndex = "createdAt_ttl"
