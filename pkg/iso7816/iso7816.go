/*
Package iso7816 implements the APDU (Application Protocol Data Unit)
transport used to talk to contact smart cards according to ISO/IEC 7816-3
and 7816-4.

# Fundamentals

The communication with a smart card is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6CXX: Error, wrong length expectation (XX is the correct length).
  - Other: Various error conditions.

# Transport protocol handling

T=0 cards expose two transport behaviors to the application layer, both
handled automatically by the Client:

  - '61 XX': the card holds XX more response bytes. The Client issues GET
    RESPONSE commands and accumulates the payloads until the card stops
    reporting pending data.
  - '6C XX': the expected length (Le) was wrong and the card suggests XX.
    The Client reissues the original command once with the corrected Le.

# Usage

	client := iso7816.NewClient(card)
	cls, _ := iso7816.NewClass(0x00)
	cmd := iso7816.NewCommandAPDU(cls, iso7816.INS_SELECT, 0x04, 0x00, aid, 0)

	res, err := client.Send(cmd)
	if errors.Is(err, iso7816.ErrNotFound) {
	    // file or record absent on the card
	}
	// res.Data holds the accumulated response payload.
*/
package iso7816
