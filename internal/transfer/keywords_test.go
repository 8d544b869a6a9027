package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-dev/khata/internal/model"
)

func TestLooksLikeTransfer(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"UPI-PAYTM-1042-SWIGGY", true},
		{"NEFT FROM ARUN KUMAR", true},
		{"IMPS/P2A/415233/ARUN", true},
		{"TO TRANSFER INB Priya Sharma", true},
		{"Google Pay to landlord", true},
		{"PHONEPE RECHARGE", true},
		{"ATM WDL 15-03-24", false},
		{"POS AMAZON RETAIL", false},
		{"INT CREDIT Q4", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, LooksLikeTransfer(tc.desc), "description %q", tc.desc)
	}
}

func TestClassifyMethod(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"TO TRANSFER INB Arun Kumar", MethodOutgoing},
		{"BY TRANSFER NEFT HDFC123", MethodIncoming},
		{"UPI/P2P/415233/ARUN", MethodUPI},
		{"IMPS-415233-ARUN KUMAR", MethodIMPS},
		{"NEFT CR AXIS BANK", MethodNEFT},
		{"RTGS UTR AXISR52024", MethodRTGS},
		{"PAYTM WALLET LOAD", MethodOther},
		{"upi/p2m/swiggy", MethodUPI},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyMethod(tc.desc), "description %q", tc.desc)
	}
}

func TestSummarizeMethods(t *testing.T) {
	txns := []model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "450.00", "UPI-SWIGGY-ORDER"),
		debit("Priya_HDFC", date(2024, 3, 16), "250.00", "UPI-ZOMATO-ORDER"),
		credit("Arun_SBI", date(2024, 3, 15), "5000.00", "IMPS FROM PRIYA"),
		debit("Priya_HDFC", date(2024, 3, 17), "1200.00", "POS AMAZON RETAIL"),
	}

	got := SummarizeMethods(txns)
	require.Len(t, got, 2)

	assert.Equal(t, MethodUPI, got[0].Method)
	assert.Equal(t, 2, got[0].Count)
	assert.True(t, got[0].Total.Equal(dec("700.00")))

	assert.Equal(t, MethodIMPS, got[1].Method)
	assert.Equal(t, 1, got[1].Count)
	assert.True(t, got[1].Total.Equal(dec("5000.00")))
}

func TestSummarizeMethods_CountTiesOrderByName(t *testing.T) {
	txns := []model.Transaction{
		debit("Priya_HDFC", date(2024, 3, 15), "100.00", "UPI-SWIGGY"),
		credit("Arun_SBI", date(2024, 3, 15), "200.00", "IMPS FROM PRIYA"),
	}

	got := SummarizeMethods(txns)
	require.Len(t, got, 2)
	assert.Equal(t, MethodIMPS, got[0].Method)
	assert.Equal(t, MethodUPI, got[1].Method)
}
