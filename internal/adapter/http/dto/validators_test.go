package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := TransferRequest{
		Currency:     "  RUB  ",
		Amount:       " 100.50 ",
		Counterparty: " Мария П. ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "RUB", req.Currency)
	assert.Equal(t, "100.50", req.Amount)
	assert.Equal(t, "Мария П.", req.Counterparty)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := UpdateNameRequest{
		Name: "<script>alert('x')</script>",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Name, "&lt;script&gt;")
	assert.NotContains(t, req.Name, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	fee := "  2.50  "
	req := TransferRequest{
		Currency:     "USD",
		Amount:       "100",
		Fee:          &fee,
		Counterparty: "Bob",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "2.50", *req.Fee)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := TransferRequest{
		Currency:     "USD",
		Amount:       "100",
		Counterparty: "Bob",
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.Fee)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Mapping tests ---

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("1500.75")
	require.NoError(t, err)
	assert.Equal(t, "1500.75", d.String())

	_, err = ParseAmount("not-a-number")
	require.Error(t, err)
}
