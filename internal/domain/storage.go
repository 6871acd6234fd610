package domain

// User data keys persisted across runs
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyDeviceID = "deviceid"
	KeySearch   = "search"
)

// UserData is the persisted key-value store for credentials and
// last-used values. Last writer wins.
type UserData interface {
	Get(key string) string
	Set(key, value string) error
	Delete(key string) error
}
