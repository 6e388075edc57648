package plancache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/bytedance/sonic"

	"github.com/specialistvlad/graphcompiler/internal/config"
)

// Fingerprint returns a stable hex digest of a description and the field
// mapping it is read with. Map key order does not affect the result.
func Fingerprint(d *config.Description, m config.FieldMapping) (string, error) {
	data, err := sonic.ConfigStd.Marshal(struct {
		Mapping     config.FieldMapping `json:"mapping"`
		Description *config.Description `json:"description"`
	}{m, d})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
