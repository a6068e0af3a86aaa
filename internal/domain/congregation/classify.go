package congregation

const (
	childAgeCutoff     = 13
	youthAgeCutoff     = 30
	childOccupationAge = 5
	adultAge           = 18
)

// ClassifyMemberType derives the member classification from age and marital
// status. The surrounding requirements carried both a <12 and a <13 child
// cutoff; <13 is the one adopted here (see DESIGN.md).
func ClassifyMemberType(age int, maritalStatus string) string {
	if age < childAgeCutoff {
		return MemberTypeChild
	}
	if age <= youthAgeCutoff && maritalStatus == MaritalSingle {
		return MemberTypeYouth
	}
	return MemberTypeMember
}

// ResolveOccupation forces Child for believers aged 5 or under and defaults
// everyone else to Non-Worker when no category was provided.
func ResolveOccupation(age int, provided string) string {
	if age <= childOccupationAge {
		return OccupationChild
	}
	if provided == "" {
		return OccupationNonWorker
	}
	return provided
}
