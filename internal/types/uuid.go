package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex contract_01HV7M3ZQ0J9T6B8WQ4Y3S2K1N
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns an upper-cased short id with a prefix,
// capped at 12 characters, e.g. `SO-XYZ12A8Q`.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(prefix + id)
}

const (
	UUID_PREFIX_CONTRACT               = "contract"
	UUID_PREFIX_CONTRACT_LINE          = "cline"
	UUID_PREFIX_CONTRACT_TEMPLATE      = "ctmpl"
	UUID_PREFIX_CONTRACT_TEMPLATE_LINE = "ctline"
	UUID_PREFIX_ORDER                  = "order"
	UUID_PREFIX_ORDER_LINE             = "oline"
	UUID_PREFIX_PRODUCT                = "prod"
	UUID_PREFIX_PRICELIST              = "plist"
	UUID_PREFIX_PRICELIST_ITEM         = "pitem"
)

const (
	SHORT_ID_PREFIX_SALE_ORDER     = "SO-"
	SHORT_ID_PREFIX_PURCHASE_ORDER = "PO-"
)
