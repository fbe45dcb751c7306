package reservation

import (
	"strconv"
	"strings"
	"time"
)

// Owner identifies who holds a reservation: an anonymous session or a
// signed-in user. Exactly one of the two is set.
type Owner struct {
	SessionID string
	UserID    int64
}

func SessionOwner(sessionID string) Owner {
	return Owner{SessionID: strings.TrimSpace(sessionID)}
}

func UserOwner(userID int64) Owner {
	return Owner{UserID: userID}
}

func (o Owner) IsUser() bool {
	return o.UserID > 0
}

func (o Owner) IsSession() bool {
	return o.SessionID != ""
}

func (o Owner) Validate() error {
	if o.IsUser() == o.IsSession() {
		return ErrInvalidOwner
	}
	return nil
}

func (o Owner) String() string {
	if o.IsUser() {
		return "user:" + strconv.FormatInt(o.UserID, 10)
	}
	return "session:" + o.SessionID
}

type Reservation struct {
	ID        int64
	ProductID int64
	Quantity  int64
	Owner     Owner
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsActive reports whether the hold still counts against inventory.
func (r *Reservation) IsActive(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

type TransferResult struct {
	Moved  int
	Merged int
	Failed int
}
