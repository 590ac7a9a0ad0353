package providers

import "strings"

// BankCode is a VNPay payment channel or bank code.
type BankCode string

const (
	BankVNPayQR     BankCode = "VNPAYQR"
	BankVNBank      BankCode = "VNBANK"
	BankIntCard     BankCode = "INTCARD"
	BankVNPayWallet BankCode = "VNPAYEWALLET"
	BankNCB         BankCode = "NCB"
	BankVietcombank BankCode = "VIETCOMBANK"
	BankVietinbank  BankCode = "VIETINBANK"
	BankBIDV        BankCode = "BIDV"
	BankAgribank    BankCode = "AGRIBANK"
	BankTechcombank BankCode = "TECHCOMBANK"
	BankACB         BankCode = "ACB"
	BankMBBank      BankCode = "MBBANK"
	BankSacombank   BankCode = "SACOMBANK"
	BankTPBank      BankCode = "TPBANK"
	BankVPBank      BankCode = "VPBANK"
	BankEximbank    BankCode = "EXIMBANK"
)

var knownBankCodes = map[BankCode]struct{}{
	BankVNPayQR:     {},
	BankVNBank:      {},
	BankIntCard:     {},
	BankVNPayWallet: {},
	BankNCB:         {},
	BankVietcombank: {},
	BankVietinbank:  {},
	BankBIDV:        {},
	BankAgribank:    {},
	BankTechcombank: {},
	BankACB:         {},
	BankMBBank:      {},
	BankSacombank:   {},
	BankTPBank:      {},
	BankVPBank:      {},
	BankEximbank:    {},
}

// ParseBankCode normalizes s and reports whether it is on the allow-list.
func ParseBankCode(s string) (BankCode, bool) {
	code := BankCode(strings.ToUpper(strings.TrimSpace(s)))
	if code == "" {
		return "", false
	}
	_, ok := knownBankCodes[code]
	return code, ok
}
