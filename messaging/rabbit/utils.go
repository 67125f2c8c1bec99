package rabbit

import (
	"encoding/base32"
	"os"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// zbase32 is the human oriented base32 alphabet, lower case and unpadded.
var zbase32 = base32.NewEncoding("ybndrfg8ejkmcpqxot1uwisza345h769").WithPadding(base32.NoPadding)

var hostname = os.Hostname

// TemporaryQueueName builds "<prefix>-<host>-<id>" where host keeps only
// letters, digits and . _ - : from the machine name and id is a fresh uuid
// in z-base-32.
func TemporaryQueueName(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	if name, err := hostname(); err == nil {
		for _, r := range name {
			if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._-:", r) {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('-')
	id := uuid.New()
	b.WriteString(zbase32.EncodeToString(id[:]))
	return b.String()
}
