package record

import (
	"github.com/fxamacker/cbor/v2"

	com_commitment "github.com/0xrafi/degen-score/pkg/common/commitment"
)

// openingRecord is what the owner's vault holds per commitment ref: enough
// to open the commitment, derive its invalidation tag, and rebuild the
// payload. It never touches public storage.
type openingRecord struct {
	Payload []byte
	Opening com_commitment.Opening
	Digest  com_commitment.Digest
}

func (o *openingRecord) bytes() ([]byte, error) {
	return cbor.Marshal(o)
}

func openingRecordFromBytes(data []byte) (openingRecord, error) {
	var o openingRecord
	if err := cbor.Unmarshal(data, &o); err != nil {
		return openingRecord{}, err
	}
	return o, nil
}
