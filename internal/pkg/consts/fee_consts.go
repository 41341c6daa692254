package consts

// Hard defaults used when neither the class nor the standard schedule sets a field.
const (
	DefaultMonthlyTuition float64 = 5000
	DefaultExaminationFee float64 = 2000
	DefaultLibraryFee     float64 = 500
	DefaultSportsFee      float64 = 1000
	DefaultTransportFee   float64 = 3000
	DefaultOtherFees      float64 = 0
	DefaultFinePercentage float64 = 0
	DefaultDiscount       float64 = 0
)

const (
	ChalanNumberPrefix     = "CH-"
	DefaultCreatedBy       = "admin"
	AcademicYearStartMonth = 4
	DateLayout             = "2006-01-02"
	FloatTwoDecimalFormat  = "%.2f"
)

const (
	DefaulterReportFolder   = "defaulter-reports"
	DefaulterReportAllScope = "all"
)

const (
	PaymentNotificationEvent = "FEE_PAYMENT_RECORDED"
	PaymentLedgerEventType   = "FEE_PAYMENT"
)
