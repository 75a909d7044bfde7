package complaint

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrEmptyDepartmentCode = errors.New("department code is empty")

// GenerateJobSlipID builds <CODE>-<AREA>-<yyMMddHHmmss><millis>, where AREA is
// the first three letters or digits of area upper-cased, or GEN when area
// has none.
func GenerateJobSlipID(code, area string, now time.Time) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", ErrEmptyDepartmentCode
	}

	var token strings.Builder
	for _, r := range strings.ToUpper(area) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			token.WriteRune(r)
			if token.Len() == 3 {
				break
			}
		}
	}
	if token.Len() == 0 {
		token.WriteString("GEN")
	}

	return fmt.Sprintf("%s-%s-%s%03d", code, token.String(), now.Format("060102150405"), now.Nanosecond()/int(time.Millisecond)), nil
}

// GenerateComplainNo returns CMP-<unix millis>.
func GenerateComplainNo(now time.Time) string {
	return fmt.Sprintf("CMP-%d", now.UnixMilli())
}
