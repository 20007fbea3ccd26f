package resource

import (
	"github.com/petjeaf/petjeaf-go/errors"
)

// EncodeBody serialises body as a JSON object. An empty body yields nil,
// meaning no request body is sent.
func EncodeBody(body *Values) ([]byte, error) {
	if body.Len() == 0 {
		return nil, nil
	}
	data, err := body.MarshalJSON()
	if err != nil {
		return nil, errors.Encoding(err)
	}
	return data, nil
}
