package congregation

import "time"

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

const (
	MemberTypeMember = "Member"
	MemberTypeYouth  = "Youth"
	MemberTypeChild  = "Child"
)

const (
	MaritalSingle  = "Single"
	MaritalMarried = "Married"
	MaritalWidowed = "Widowed"
)

const (
	BaptizedYes = "Yes"
	BaptizedNo  = "No"
)

const (
	RelationSelf     = "Self"
	RelationWife     = "Wife"
	RelationHusband  = "Husband"
	RelationSon      = "Son"
	RelationDaughter = "Daughter"
	RelationFather   = "Father"
	RelationMother   = "Mother"
	RelationOther    = "Other"
)

const (
	OccupationChild     = "Child"
	OccupationStudent   = "Student"
	OccupationNonWorker = "Non-Worker"
)

// Occupations lists the selectable occupation categories. Child is age-gated
// (forced at age <= 5) and Student gates the education-level field.
var Occupations = []string{
	OccupationChild,
	OccupationStudent,
	OccupationNonWorker,
	"Farmer",
	"Daily Wage",
	"Private Job",
	"Government Job",
	"Business",
	"Driver",
	"Homemaker",
	"Retired",
}

// Districts is the fixed administrative-district list (Tamil Nadu).
var Districts = []string{
	"Ariyalur", "Chengalpattu", "Chennai", "Coimbatore", "Cuddalore",
	"Dharmapuri", "Dindigul", "Erode", "Kallakurichi", "Kancheepuram",
	"Kanyakumari", "Karur", "Krishnagiri", "Madurai", "Mayiladuthurai",
	"Nagapattinam", "Namakkal", "Nilgiris", "Perambalur", "Pudukkottai",
	"Ramanathapuram", "Ranipet", "Salem", "Sivaganga", "Tenkasi",
	"Thanjavur", "Theni", "Thoothukudi", "Tiruchirappalli", "Tirunelveli",
	"Tirupathur", "Tiruppur", "Tiruvallur", "Tiruvannamalai", "Tiruvarur",
	"Vellore", "Viluppuram", "Virudhunagar",
}

type Family struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	Code      *string    `gorm:"type:text"`
	Address   string     `gorm:"not null"`
	Village   string     `gorm:"not null"`
	District  string     `gorm:"not null"`
	Status    string     `gorm:"not null;default:Active"`
	HeadID    *string    `gorm:"type:uuid"`
	IsDeleted bool       `gorm:"not null;default:false;index"`
	DeletedAt *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

type Believer struct {
	ID                 string     `gorm:"type:uuid;primaryKey"`
	FamilyID           string     `gorm:"type:uuid;not null;index"`
	Name               string     `gorm:"not null"`
	DateOfBirth        time.Time  `gorm:"type:date;not null"`
	Gender             string     `gorm:"not null"`
	Phone              *string    `gorm:"type:text"`
	Email              *string    `gorm:"type:text"`
	MemberType         string     `gorm:"not null"`
	Status             string     `gorm:"not null;default:Active"`
	JoinDate           time.Time  `gorm:"type:date;not null"`
	Baptized           string     `gorm:"not null;default:No"`
	BaptizedDate       *time.Time `gorm:"type:date"`
	MaritalStatus      string     `gorm:"not null"`
	WeddingDate        *time.Time `gorm:"type:date"`
	Occupation         string     `gorm:"not null"`
	EducationLevel     *string    `gorm:"type:text"`
	RelationshipToHead string     `gorm:"not null"`
	CustomRelationship *string    `gorm:"type:text"`
	IsHead             bool       `gorm:"not null;default:false"`
	SpouseID           *string    `gorm:"type:uuid"`
	SpouseName         *string    `gorm:"type:text"`
	IsDeleted          bool       `gorm:"not null;default:false;index"`
	DeletedAt          *time.Time `gorm:"type:timestamptz"`
	CreatedAt          time.Time  `gorm:"autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime"`
}

// FamilyWithMembers is the GET /families/:id projection.
type FamilyWithMembers struct {
	Family  Family
	Head    *Believer
	Members []Believer
}

type FamilyFilter struct {
	Search   string
	Status   string
	District string
	Page     int
	Limit    int
}

const (
	SortByName = "name"
	SortByAge  = "age"

	SortAsc  = "asc"
	SortDesc = "desc"
)

type BelieverFilter struct {
	Search     string
	FamilyID   string
	MemberType string
	Status     string
	Gender     string
	Baptized   string
	SortBy     string
	SortDir    string
	Page       int
	Limit      int
}

type FamilyAttrs struct {
	Address  string
	Village  string
	District string
	Status   string
}

// MemberAttrs carries the raw add-member / create-head payload before the
// integrity rules derive member type, occupation and spouse linkage.
type MemberAttrs struct {
	Name               string
	DateOfBirth        time.Time
	Gender             string
	Phone              *string
	Email              *string
	Status             string
	JoinDate           *time.Time
	Baptized           string
	BaptizedDate       *time.Time
	MaritalStatus      string
	WeddingDate        *time.Time
	Occupation         string
	EducationLevel     *string
	RelationshipToHead string
	CustomRelationship *string
	SpouseID           *string
	SpouseName         *string
}

// OptionalString distinguishes "absent from the patch" (Set=false) from an
// explicit write, including an explicit null (Set=true, Value=nil).
type OptionalString struct {
	Set   bool
	Value *string
}

type OptionalDate struct {
	Set   bool
	Value *time.Time
}

// UpdateBelieverInput is the PUT /believers/:id patch. The locked fields
// (family, head flag, relationship to head) are carried so the service can
// reject writes to them explicitly.
type UpdateBelieverInput struct {
	Name          *string
	DateOfBirth   *time.Time
	Gender        *string
	Phone         OptionalString
	Email         OptionalString
	Status        *string
	JoinDate      *time.Time
	Baptized      *string
	BaptizedDate  OptionalDate
	MaritalStatus *string
	WeddingDate   OptionalDate
	Occupation    *string

	EducationLevel     OptionalString
	SpouseID           OptionalString
	SpouseName         OptionalString
	CustomRelationship OptionalString

	// Locked after creation; any attempt to set them fails validation.
	FamilyID           *string
	IsHead             *bool
	RelationshipToHead *string
}

type UpdateFamilyInput struct {
	Address  *string
	Village  *string
	District *string
	Status   *string
}

// Stats is the dashboard aggregation.
type Stats struct {
	Families        int64            `json:"families"`
	Believers       int64            `json:"believers"`
	TrashedFamilies int64            `json:"trashed_families"`
	TrashedMembers  int64            `json:"trashed_believers"`
	ByMemberType    map[string]int64 `json:"by_member_type"`
	ByGender        map[string]int64 `json:"by_gender"`
	Baptized        int64            `json:"baptized"`
	NotBaptized     int64            `json:"not_baptized"`
}

const (
	ReminderBirthday    = "birthday"
	ReminderAnniversary = "anniversary"
)

// Reminder is an upcoming recurring date (birthday or wedding anniversary).
type Reminder struct {
	BelieverID string    `json:"believer_id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Date       time.Time `json:"date"`
}

func ValidDistrict(value string) bool {
	for _, d := range Districts {
		if d == value {
			return true
		}
	}
	return false
}

func ValidOccupation(value string) bool {
	for _, o := range Occupations {
		if o == value {
			return true
		}
	}
	return false
}

func ValidRelationship(value string) bool {
	switch value {
	case RelationSelf, RelationWife, RelationHusband, RelationSon,
		RelationDaughter, RelationFather, RelationMother, RelationOther:
		return true
	}
	return false
}

func ValidMaritalStatus(value string) bool {
	return value == MaritalSingle || value == MaritalMarried || value == MaritalWidowed
}

func ValidGender(value string) bool {
	return value == GenderMale || value == GenderFemale
}

func ValidStatus(value string) bool {
	return value == StatusActive || value == StatusInactive
}

func ValidBaptized(value string) bool {
	return value == BaptizedYes || value == BaptizedNo
}
