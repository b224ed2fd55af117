package record

import (
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/go-data-exporter/hostdata/errs"
)

// Implementations of Codepage provide EBCDIC<->UTF-8 translation for the
// character fields of a record.
type Codepage interface {
	// Decode converts EBCDIC bytes into a UTF-8 string.
	Decode(e []byte) (string, error)

	// Encode converts a UTF-8 string into EBCDIC bytes. Characters with no
	// EBCDIC equivalent become the substitute character.
	Encode(s string) ([]byte, error)

	// CCSID returns the coded character set identifier, e.g. 37 or 1047.
	CCSID() int
}

// DefaultCCSID is used for character fields that do not name a CCSID.
const DefaultCCSID = 37

// HexCCSID marks a character field as untranslated binary data.
const HexCCSID = 65535

type charmapCodepage struct {
	ccsid int
	cm    *charmap.Charmap
}

func (c *charmapCodepage) Decode(e []byte) (string, error) {
	b, err := c.cm.NewDecoder().Bytes(e)
	if err != nil {
		return "", errors.Wrapf(err, "decode ccsid %d", c.ccsid)
	}
	return string(b), nil
}

func (c *charmapCodepage) Encode(s string) ([]byte, error) {
	b, err := encoding.ReplaceUnsupported(c.cm.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "encode ccsid %d", c.ccsid)
	}
	return b, nil
}

func (c *charmapCodepage) CCSID() int {
	return c.ccsid
}

var codepages = map[int]Codepage{
	37:   &charmapCodepage{ccsid: 37, cm: charmap.CodePage037},
	1047: &charmapCodepage{ccsid: 1047, cm: charmap.CodePage1047},
	1140: &charmapCodepage{ccsid: 1140, cm: charmap.CodePage1140},
}

// CodepageFor returns the codepage registered for ccsid; 0 selects
// DefaultCCSID.
func CodepageFor(ccsid int) (Codepage, error) {
	if ccsid == 0 {
		ccsid = DefaultCCSID
	}
	cp, ok := codepages[ccsid]
	if !ok {
		return nil, errors.Wrap(errs.IllegalArgument("ccsid "+strconv.Itoa(ccsid), errs.ParameterValueNotValid), "no codepage")
	}
	return cp, nil
}

// RegisterCodepage makes cp available to CodepageFor. It is meant to be
// called during initialization.
func RegisterCodepage(cp Codepage) {
	codepages[cp.CCSID()] = cp
}
