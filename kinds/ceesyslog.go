/*************************************************************************
 * Copyright 2024 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package kinds

import (
	"strings"

	"github.com/buger/jsonparser"
	"github.com/crewjam/rfc5424"

	"github.com/gravwell/lognorm/registry"
)

const ceeCookie = "@cee:"

func init() {
	registry.Register(registry.Entry{
		Kind:            registry.KindCEESyslog,
		Name:            "cee-syslog",
		DefaultPriority: 4,
		Run:             runCEESyslog,
	})
}

// runCEESyslog consumes the remainder of the input as a full RFC5424 frame
// (header, structured data, and a "@cee:"-prefixed JSON payload), the
// Common Event Expression convention some appliances use to carry
// structured fields inside an otherwise ordinary syslog message. It uses
// crewjam/rfc5424, the same framing library the ingest logger package
// builds its own structured log lines with, to decode the header instead
// of hand-rolling another syslog parser.
func runCEESyslog(data []byte, offset int, _ interface{}) (int, interface{}, bool) {
	var msg rfc5424.Message
	if err := msg.UnmarshalBinary(data[offset:]); err != nil {
		return offset, nil, false
	}

	out := map[string]interface{}{
		"hostname":   msg.Hostname,
		"app-name":   msg.AppName,
		"process-id": msg.ProcessID,
		"message-id": msg.MessageID,
	}
	if !msg.Timestamp.IsZero() {
		out["timestamp"] = msg.Timestamp
	}
	for _, sd := range msg.StructuredData {
		for _, p := range sd.Params {
			out[sd.ID+"."+p.Name] = p.Value
		}
	}

	body := string(msg.Message)
	idx := strings.Index(body, ceeCookie)
	if idx < 0 {
		return offset, nil, false
	}
	jsonPart := []byte(strings.TrimSpace(body[idx+len(ceeCookie):]))
	end := matchingBraceEnd(jsonPart, 0)
	if end < 0 {
		return offset, nil, false
	}
	err := jsonparser.ObjectEach(jsonPart[:end], func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		out[string(key)] = decodeJSONValue(value, dataType)
		return nil
	})
	if err != nil {
		return offset, nil, false
	}

	return len(data), out, true
}
