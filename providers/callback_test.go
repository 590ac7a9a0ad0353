package providers_test

import (
	"net/url"
	"testing"

	"github.com/Viciouslight/YukiSoraShop-sub000/providers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbackParams(responseCode, txnStatus string) providers.Params {
	return providers.Params{
		"vnp_Amount":            "11000000",
		"vnp_BankCode":          "NCB",
		"vnp_BankTranNo":        "VNP14067890",
		"vnp_CardType":          "ATM",
		"vnp_OrderInfo":         "Thanh toan don hang 7",
		"vnp_PayDate":           "20230722113000",
		"vnp_ResponseCode":      responseCode,
		"vnp_TmnCode":           "DEMO0001",
		"vnp_TransactionNo":     "14067890",
		"vnp_TransactionStatus": txnStatus,
		"vnp_TxnRef":            "7-1690000000",
	}
}

func signedQuery(p providers.Params) url.Values {
	q := url.Values{}
	for k, v := range p {
		q.Set(k, v)
	}
	q.Set(providers.ParamSecureHashType, "HmacSHA512")
	q.Set(providers.ParamSecureHash, providers.Sign(p, testSecret))
	return q
}

func TestParse_Success(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())

	res := parser.Parse(signedQuery(callbackParams("00", "00")))

	assert.True(t, res.IsSuccess)
	assert.True(t, res.SignatureValid)
	assert.Equal(t, uint(7), res.OrderID)
	assert.Equal(t, int64(1690000000), res.AttemptUnix)
	assert.Equal(t, "7-1690000000", res.TransactionRef)
	assert.Equal(t, "14067890", res.ProviderTransactionNo)
	assert.Equal(t, "NCB", res.BankCode)
	assert.Equal(t, "VND", res.Currency)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(110000)))
	require.NotNil(t, res.PayDate)
	assert.Equal(t, int64(1690000200), res.PayDate.Unix())
	assert.NotEmpty(t, res.RawQuery)
}

func TestParse_TamperedSignature(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())
	q := signedQuery(callbackParams("00", "00"))
	q.Set("vnp_Amount", "100")

	res := parser.Parse(q)

	assert.False(t, res.IsSuccess)
	assert.False(t, res.SignatureValid)
	assert.Contains(t, res.Message, "invalid signature")
	assert.Equal(t, uint(7), res.OrderID)
}

func TestParse_MissingSignature(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())
	q := signedQuery(callbackParams("00", "00"))
	q.Del(providers.ParamSecureHash)

	res := parser.Parse(q)

	assert.False(t, res.IsSuccess)
	assert.False(t, res.SignatureValid)
}

func TestParse_ReportsEveryFailedCheck(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())
	q := signedQuery(callbackParams("24", "02"))
	q.Set(providers.ParamSecureHash, "deadbeef")

	res := parser.Parse(q)

	assert.False(t, res.IsSuccess)
	assert.Contains(t, res.Message, "invalid signature")
	assert.Contains(t, res.Message, `response code "24" (customer canceled the transaction)`)
	assert.Contains(t, res.Message, `transaction status "02"`)
}

func TestParse_ValidSignatureButDeclined(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())

	res := parser.Parse(signedQuery(callbackParams("00", "01")))

	assert.False(t, res.IsSuccess)
	assert.True(t, res.SignatureValid)
	assert.NotContains(t, res.Message, "invalid signature")
	assert.Contains(t, res.Message, "transaction not completed")
}

func TestParse_IgnoresForeignParameters(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())
	q := signedQuery(callbackParams("00", "00"))
	q.Set("utm_source", "mail")
	q.Set("session", "abc")

	res := parser.Parse(q)

	assert.True(t, res.IsSuccess)
}

func TestParse_UnknownVnpParameterIsSigned(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())

	p := callbackParams("00", "00")
	p["vnp_FutureField"] = "v2"
	assert.True(t, parser.Parse(signedQuery(p)).IsSuccess)

	q := signedQuery(callbackParams("00", "00"))
	q.Set("vnp_FutureField", "injected")
	assert.False(t, parser.Parse(q).IsSuccess)
}

func TestParse_UnresolvableTxnRef(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())
	p := callbackParams("00", "00")
	p["vnp_TxnRef"] = "abc"

	res := parser.Parse(signedQuery(p))

	assert.True(t, res.IsSuccess)
	assert.Equal(t, uint(0), res.OrderID)
}

func TestParse_EmptyQuery(t *testing.T) {
	parser := providers.NewCallbackParser(testConfig())

	res := parser.Parse(url.Values{})

	assert.False(t, res.IsSuccess)
	assert.Equal(t, uint(0), res.OrderID)
	assert.True(t, res.Amount.IsZero())
}
