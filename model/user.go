package model

import "time"

const (
	UsersCollection = "Users"

	// InfoDoc is the singleton counter document inside the Users collection.
	InfoDoc            = "@info"
	TotalAccountsField = "totalAccounts"
)

// Core permission names. The permissions map is open: callers may grant
// arbitrary additional keys and Can() resolves them the same way.
const (
	PermCreateUser    = "create_user"
	PermDeleteUser    = "delete_user"
	PermEditUser      = "edit_user"
	PermGetUser       = "get_user"
	PermManageOptions = "manage_options"
)

type Permissions map[string]bool

func DefaultPermissions() Permissions {
	return Permissions{
		PermCreateUser:    false,
		PermDeleteUser:    false,
		PermEditUser:      false,
		PermGetUser:       false,
		PermManageOptions: false,
	}
}

func FullPermissions() Permissions {
	return Permissions{
		PermCreateUser:    true,
		PermDeleteUser:    true,
		PermEditUser:      true,
		PermGetUser:       true,
		PermManageOptions: true,
	}
}

// Profile is the Firestore document for a user, keyed by the auth UID.
// DOB is deliberately loose: the stored value is either the boolean false
// sentinel (never set), null (cleared or unparseable) or a timestamp.
type Profile struct {
	Email       string      `firestore:"email"`
	DisplayName string      `firestore:"displayName"`
	FirstName   string      `firestore:"firstName"`
	LastName    string      `firestore:"lastName"`
	DOB         interface{} `firestore:"dob"`
	PhotoURL    string      `firestore:"photoURL"`
	PhoneNumber string      `firestore:"phoneNumber"`
	Permissions Permissions `firestore:"permissions"`
}

// DOBState names the three legal states of the dob field. The create path
// seeds Unset while the update path collapses anything falsy or unparseable
// to Null; both policies predate this service and are kept apart on purpose.
type DOBState int

const (
	DOBUnset DOBState = iota
	DOBNull
	DOBSet
)

type DOB struct {
	State DOBState
	Date  time.Time
}

// Value returns the representation written to Firestore.
func (d DOB) Value() interface{} {
	switch d.State {
	case DOBSet:
		return d.Date
	case DOBNull:
		return nil
	default:
		return false
	}
}
