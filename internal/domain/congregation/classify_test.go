package congregation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMemberType(t *testing.T) {
	cases := []struct {
		name          string
		age           int
		maritalStatus string
		want          string
	}{
		{"under thirteen", 12, MaritalSingle, MemberTypeChild},
		{"exactly thirteen single", 13, MaritalSingle, MemberTypeYouth},
		{"thirty single", 30, MaritalSingle, MemberTypeYouth},
		{"thirty one single", 31, MaritalSingle, MemberTypeMember},
		{"young but married", 25, MaritalMarried, MemberTypeMember},
		{"young but widowed", 25, MaritalWidowed, MemberTypeMember},
		{"married at twelve is still a child", 12, MaritalMarried, MemberTypeChild},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyMemberType(tc.age, tc.maritalStatus))
		})
	}
}

func TestResolveOccupation(t *testing.T) {
	cases := []struct {
		name     string
		age      int
		provided string
		want     string
	}{
		{"five or under is forced to Child", 5, "Farmer", OccupationChild},
		{"six keeps the provided value", 6, "Farmer", "Farmer"},
		{"empty defaults to Non-Worker", 40, "", OccupationNonWorker},
		{"student stays student", 20, OccupationStudent, OccupationStudent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveOccupation(tc.age, tc.provided))
		})
	}
}
