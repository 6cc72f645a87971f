package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountPayableKobo(t *testing.T) {
	assert.Equal(t, int64(950000), AmountPayableKobo(1000))
	assert.Equal(t, int64(142500000), AmountPayableKobo(150000))
}

func TestAccountTypeValid(t *testing.T) {
	assert.True(t, AccountIndividual.Valid())
	assert.True(t, AccountCorporate.Valid())
	assert.True(t, AccountJoint.Valid())
	assert.False(t, AccountType("TRUST").Valid())
	assert.False(t, AccountType("").Valid())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusPending, StatusApproved, StatusRejected} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("SHREDDED").Valid())
}

func TestSignatureSelection(t *testing.T) {
	app := &Application{
		IndividualSignature: "ind",
		CorporateSignature:  "corp",
		JointSignature:      "joint",
	}

	app.AccountType = AccountIndividual
	assert.Equal(t, "ind", app.Signature())

	app.AccountType = AccountCorporate
	assert.Equal(t, "corp", app.Signature())

	app.AccountType = AccountJoint
	assert.Equal(t, "joint", app.Signature())
}

func TestReference(t *testing.T) {
	app := &Application{ID: 42}
	assert.Equal(t, "TIP/PO/000042", app.Reference())
}
