package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-select/pkg/bits"
)

// Class Byte (CLA) Structure according to ISO/IEC 7816-4.
//
// Bit 8 distinguishes proprietary classes (1) from interindustry ones (0).
// For first interindustry classes (00xx xxxx):
//   - Bit 5: command chaining (more commands follow).
//   - Bits 4-3: secure messaging indicator.
//   - Bits 2-1: logical channel number (0-3).
//
// Proprietary classes (such as the 0x80 class EMV uses for GET PROCESSING
// OPTIONS) carry no interindustry structure; the raw byte is preserved
// verbatim.

// SecureMessaging defines the security level applied to the APDU.
type SecureMessaging int

const (
	// SMNone indicates no secure messaging or no indication given.
	SMNone SecureMessaging = 0
	// SMProprietary indicates a proprietary secure messaging format.
	SMProprietary SecureMessaging = 1
	// SMHeaderNoProc indicates SM according to ISO, header not processed.
	SMHeaderNoProc SecureMessaging = 2
	// SMHeaderAuth indicates SM according to ISO, header authenticated.
	SMHeaderAuth SecureMessaging = 3
)

// Class represents the parsed ISO 7816-4 Class byte (CLA).
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8
}

// NewClass creates a Class object by decoding a raw CLA byte.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}

	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c, nil
	}

	c.IsChained = bits.IsSet(cla, 5)
	c.SecureMessaging = SecureMessaging(bits.GetRange(cla, 4, 3))
	c.Channel = bits.GetRange(cla, 2, 1)

	return c, nil
}

// Encode converts the Class object back to its byte representation.
func (c Class) Encode() byte {
	if c.IsProprietary {
		return c.Raw
	}

	var res byte
	if c.IsChained {
		res = bits.Set(res, 5)
	}
	res |= byte(c.SecureMessaging) << 2
	res |= c.Channel

	return res
}

// Verbose returns a human-readable description of the CLA byte.
func (c Class) Verbose() string {
	if c.IsProprietary {
		return fmt.Sprintf("Class: Proprietary (0x%02X)", c.Raw)
	}

	smDesc := "None"
	switch c.SecureMessaging {
	case SMProprietary:
		smDesc = "Proprietary"
	case SMHeaderNoProc:
		smDesc = "ISO (Header not processed)"
	case SMHeaderAuth:
		smDesc = "ISO (Header authenticated)"
	}

	chaining := "Last or only command"
	if c.IsChained {
		chaining = "More commands follow (Chaining)"
	}

	return fmt.Sprintf("Chaining: %s | Secure Messaging: %s | Logical Channel: %d",
		chaining, smDesc, c.Channel)
}
