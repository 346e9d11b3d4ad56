package rover

import (
	"errors"
	"testing"
)

func TestDecodeRoverInfoAcceptsRoverEnvelope(t *testing.T) {
	body := []byte(`{"rover":{"id":5,"name":"Opportunity","landing_date":"2004-01-25","launch_date":"2003-07-07","status":"complete","max_sol":5111,"max_date":"2018-06-11","total_photos":198439}}`)
	info, err := DecodeRoverInfo(body)
	if err != nil {
		t.Fatalf("DecodeRoverInfo: %v", err)
	}
	if info.Name != "Opportunity" || info.MaxSol != 5111 || info.MaxDate.String() != "2018-06-11" {
		t.Fatalf("unexpected info %+v", info)
	}
	if len(info.SolDescriptions) != 0 {
		t.Fatalf("expected no sol descriptions")
	}
}

func TestDecodeRoverInfoRejectsInvalidPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"no envelope":    `{"rovers":[]}`,
		"unknown status": `{"rover":{"name":"X","status":"sleeping"}}`,
		"negative total": `{"rover":{"name":"X","status":"active","total_photos":-1}}`,
		"bad date":       `{"rover":{"name":"X","status":"active","max_date":"08/06/2012"}}`,
		"missing name":   `{"rover":{"status":"active"}}`,
	}
	for name, body := range cases {
		if _, err := DecodeRoverInfo([]byte(body)); !errors.Is(err, ErrDecode) {
			t.Fatalf("%s: expected decode error, got %v", name, err)
		}
	}
}

func TestDecodePhotoReferences(t *testing.T) {
	photos, err := DecodePhotoReferences([]byte(`{"photos":[]}`))
	if err != nil || photos == nil || len(photos) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v err=%v", photos, err)
	}

	if _, err := DecodePhotoReferences([]byte(`{"latest_photos":[]}`)); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error for missing photos key, got %v", err)
	}

	dup := []byte(`{"photos":[{"id":1,"sol":1},{"id":1,"sol":1}]}`)
	if _, err := DecodePhotoReferences(dup); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected decode error for duplicate ids, got %v", err)
	}
}
