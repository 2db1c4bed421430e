package expiry

import (
    "fmt"
    "strconv"
    "strings"
    "time"
)

const (
    // MinYear is the oldest two-digit year accepted on a card face.
    MinYear = 22
    // WindowYears is how far past the current year a card face may point.
    WindowYears = 5
)

var (
    defaultLoc   = time.UTC
    productYears = map[string]int{"credit": 3, "debit": 5}
)

// SetDefaultExpiryLocation sets the time location used to derive the current year (fallback UTC).
func SetDefaultExpiryLocation(loc *time.Location) {
    if loc != nil {
        defaultLoc = loc
    }
}

// YearsForProduct returns validity years for product unless override>0.
func YearsForProduct(product string, override int) int {
    if override > 0 {
        return override
    }
    if y, ok := productYears[strings.ToLower(product)]; ok {
        return y
    }
    return 5
}

// CardFace returns expiry as MM/YY for card imprint.
func CardFace(issue time.Time, years int) string {
    t := issue.In(defaultLoc)
    y := (t.Year() + years) % 100
    m := int(t.Month())
    return fmt.Sprintf("%02d/%02d", m, y)
}

// TwoDigitYear returns the year of now in the default location, modulo 100.
func TwoDigitYear(now time.Time) int {
    return now.In(defaultLoc).Year() % 100
}

// MaxYear is the last two-digit year accepted at time now.
func MaxYear(now time.Time) int {
    return TwoDigitYear(now) + WindowYears
}

// YearInWindow reports whether yy lies in [MinYear, MaxYear(now)].
func YearInWindow(yy int, now time.Time) bool {
    return yy >= MinYear && yy <= MaxYear(now)
}

// SplitCardFace splits a strict "DD/DD" card face into its month and year parts.
// It checks the shape only; ranges are left to the caller.
func SplitCardFace(face string) (month, year int, err error) {
    if len(face) != 5 || face[2] != '/' {
        return 0, 0, fmt.Errorf("card face must be MM/YY")
    }
    for _, i := range []int{0, 1, 3, 4} {
        if face[i] < '0' || face[i] > '9' {
            return 0, 0, fmt.Errorf("card face must be digits")
        }
    }
    month, _ = strconv.Atoi(face[:2])
    year, _ = strconv.Atoi(face[3:])
    return month, year, nil
}
