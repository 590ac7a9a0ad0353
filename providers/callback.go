package providers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParamPrefix is the namespace of every VNPay parameter.
const ParamPrefix = "vnp_"

// ResponseCodeSuccess is VNPay's success value for both vnp_ResponseCode and
// vnp_TransactionStatus.
const ResponseCodeSuccess = "00"

var responseDescriptions = map[string]string{
	"00": "transaction successful",
	"07": "amount debited, transaction suspected of fraud",
	"09": "card or account not registered for internet banking",
	"10": "card or account authentication failed more than 3 times",
	"11": "payment window expired",
	"12": "card or account is locked",
	"13": "wrong one-time password",
	"24": "customer canceled the transaction",
	"51": "insufficient balance",
	"65": "daily transaction limit exceeded",
	"75": "bank under maintenance",
	"79": "wrong payment password too many times",
	"99": "unknown error",
}

var transactionStatusDescriptions = map[string]string{
	"00": "transaction successful",
	"01": "transaction not completed",
	"02": "transaction failed",
	"04": "reversed transaction",
	"05": "refund in progress",
	"06": "refund requested",
	"07": "suspected fraud",
	"09": "refund rejected",
}

// DescribeResponseCode returns VNPay's meaning for a vnp_ResponseCode.
func DescribeResponseCode(code string) string {
	if d, ok := responseDescriptions[code]; ok {
		return d
	}
	return "unrecognized response code"
}

// CallbackResult is the typed outcome of a VNPay return or IPN call.
type CallbackResult struct {
	IsSuccess             bool            `json:"is_success"`
	Message               string          `json:"message"`
	TransactionRef        string          `json:"transaction_ref"`
	ProviderTransactionNo string          `json:"provider_transaction_no,omitempty"`
	BankCode              string          `json:"bank_code,omitempty"`
	PayDate               *time.Time      `json:"pay_date,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	OrderID               uint            `json:"order_id"`
	AttemptUnix           int64           `json:"attempt_unix,omitempty"`
	ResponseCode          string          `json:"response_code"`
	TransactionStatus     string          `json:"transaction_status"`
	SignatureValid        bool            `json:"signature_valid"`
	RawQuery              string          `json:"-"`
}

// CallbackParser validates and decodes VNPay callbacks. It has no side effects.
type CallbackParser struct {
	cfg Config
}

// NewCallbackParser creates a CallbackParser for cfg.
func NewCallbackParser(cfg Config) *CallbackParser {
	return &CallbackParser{cfg: cfg}
}

// Parse never fails: every integrity or format problem is reported through
// IsSuccess and Message.
func (p *CallbackParser) Parse(query url.Values) CallbackResult {
	params := make(Params)
	for k, vs := range query {
		if !strings.HasPrefix(k, ParamPrefix) || len(vs) == 0 {
			continue
		}
		params[k] = vs[0]
	}

	res := CallbackResult{
		TransactionRef:        params["vnp_TxnRef"],
		ProviderTransactionNo: params["vnp_TransactionNo"],
		BankCode:              params["vnp_BankCode"],
		ResponseCode:          params["vnp_ResponseCode"],
		TransactionStatus:     params["vnp_TransactionStatus"],
		Currency:              p.cfg.CurrCode,
		RawQuery:              query.Encode(),
	}
	if c := params["vnp_CurrCode"]; c != "" {
		res.Currency = c
	}
	if raw := params["vnp_Amount"]; raw != "" {
		if minor, err := strconv.ParseInt(raw, 10, 64); err == nil {
			res.Amount = FromMinorUnits(minor)
		}
	}
	if raw := params["vnp_PayDate"]; raw != "" {
		if t, err := time.ParseInLocation(vnpTimeLayout, raw, p.cfg.location()); err == nil {
			res.PayDate = &t
		}
	}
	res.OrderID, res.AttemptUnix = ParseTxnRef(res.TransactionRef)

	res.SignatureValid = Verify(params, params[ParamSecureHash], p.cfg.HashSecret)

	var failures []string
	if !res.SignatureValid {
		failures = append(failures, "invalid signature")
	}
	if res.ResponseCode != ResponseCodeSuccess {
		failures = append(failures, fmt.Sprintf("response code %q (%s)", res.ResponseCode, DescribeResponseCode(res.ResponseCode)))
	}
	if res.TransactionStatus != ResponseCodeSuccess {
		desc, ok := transactionStatusDescriptions[res.TransactionStatus]
		if !ok {
			desc = "unrecognized transaction status"
		}
		failures = append(failures, fmt.Sprintf("transaction status %q (%s)", res.TransactionStatus, desc))
	}

	if len(failures) == 0 {
		res.IsSuccess = true
		res.Message = "payment successful"
		return res
	}
	res.Message = "payment failed: " + strings.Join(failures, "; ")
	return res
}
