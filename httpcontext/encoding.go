package httpcontext

import (
	"encoding/json"
	"encoding/xml"

	"github.com/kildevaeld/strong"
	"github.com/vmihailenco/msgpack"
)

type JSONEncoding struct {
}

func (j *JSONEncoding) Decode(bs []byte, v interface{}) error {
	return json.Unmarshal(bs, v)
}

func (j *JSONEncoding) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

type XMLEncoding struct {
}

func (x *XMLEncoding) Decode(bs []byte, v interface{}) error {
	return xml.Unmarshal(bs, v)
}

func (x *XMLEncoding) Encode(v interface{}) ([]byte, error) {
	return xml.Marshal(v)
}

type MsgPackEncoding struct {
}

func (m *MsgPackEncoding) Decode(bs []byte, v interface{}) error {
	return msgpack.Unmarshal(bs, v)
}

func (m *MsgPackEncoding) Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

var (
	encoders map[string]Encoder
	decoders map[string]Decoder
)

func init() {
	encoders = make(map[string]Encoder)
	decoders = make(map[string]Decoder)

	jsonEncoding := &JSONEncoding{}
	RegisterDecoder(strong.MIMEApplicationJSON, jsonEncoding)
	RegisterDecoder(strong.MIMEApplicationJSONCharsetUTF8, jsonEncoding)
	RegisterEncoder(strong.MIMEApplicationJSON, jsonEncoding)
	RegisterEncoder(strong.MIMEApplicationJSONCharsetUTF8, jsonEncoding)

	xmlEncoding := &XMLEncoding{}
	RegisterDecoder(strong.MIMEApplicationXML, xmlEncoding)
	RegisterDecoder(strong.MIMEApplicationXMLCharsetUTF8, xmlEncoding)
	RegisterEncoder(strong.MIMEApplicationXML, xmlEncoding)
	RegisterEncoder(strong.MIMEApplicationXMLCharsetUTF8, xmlEncoding)

	msgPackEncoding := &MsgPackEncoding{}
	RegisterDecoder(strong.MIMEApplicationMsgpack, msgPackEncoding)
	RegisterEncoder(strong.MIMEApplicationMsgpack, msgPackEncoding)
}

type Decoder interface {
	Decode(bs []byte, v interface{}) error
}

type Encoder interface {
	Encode(v interface{}) ([]byte, error)
}

func RegisterDecoder(contentType string, decoder Decoder) {
	decoders[contentType] = decoder
}

func RegisterEncoder(contentType string, encoder Encoder) {
	encoders[contentType] = encoder
}

func GetDecoder(contentType string) Decoder {
	return decoders[contentType]
}

func GetEncoder(contentType string) Encoder {
	return encoders[contentType]
}
