package models

// Order status and payment method are stored as small integer codes. Parsing
// an unknown string falls back to the default instead of failing; callers get
// no error feedback for bad enum values.

type Status int

const (
	StatusProcessing Status = 1
	StatusPending    Status = 2
	StatusDelivered  Status = 3
	StatusCancelled  Status = 4
)

var statusNames = map[Status]string{
	StatusProcessing: "processing",
	StatusPending:    "pending",
	StatusDelivered:  "delivered",
	StatusCancelled:  "cancelled",
}

var statusCodes = map[string]Status{
	"processing": StatusProcessing,
	"pending":    StatusPending,
	"delivered":  StatusDelivered,
	"cancelled":  StatusCancelled,
}

// ParseStatus maps a status string to its code, defaulting to processing.
func ParseStatus(s string) Status {
	if code, ok := statusCodes[s]; ok {
		return code
	}
	return StatusProcessing
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "processing"
}

type TransitionResult int

const (
	TransitionAllowed TransitionResult = iota
	// TransitionRejectedTerminal: delivered orders accept no further updates.
	TransitionRejectedTerminal
	// TransitionRejectedInTransit: an order out for delivery cannot be cancelled.
	TransitionRejectedInTransit
)

// CanTransitionTo validates a status update. Beyond the two rejections there
// is no forward-order enforcement; any other transition is allowed.
func (s Status) CanTransitionTo(next Status) TransitionResult {
	if s == StatusDelivered {
		return TransitionRejectedTerminal
	}
	if s == StatusPending && next == StatusCancelled {
		return TransitionRejectedInTransit
	}
	return TransitionAllowed
}

type PaymentMethod int

const (
	PaymentMomo PaymentMethod = 2
	PaymentCash PaymentMethod = 3
)

var paymentNames = map[PaymentMethod]string{
	PaymentMomo: "momo",
	PaymentCash: "cash",
}

var paymentCodes = map[string]PaymentMethod{
	"momo": PaymentMomo,
	"cash": PaymentCash,
}

// ParsePaymentMethod maps a payment method string to its code, defaulting to cash.
func ParsePaymentMethod(s string) PaymentMethod {
	if code, ok := paymentCodes[s]; ok {
		return code
	}
	return PaymentCash
}

func (p PaymentMethod) String() string {
	if name, ok := paymentNames[p]; ok {
		return name
	}
	return "cash"
}
