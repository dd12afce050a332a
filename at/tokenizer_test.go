package at_test

import (
	"bufio"
	"strings"
	"testing"

	"github.com/vantage-iot/bearer-core/at"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "PDP context query",
			input:    "AT+CGDCONT?\r\n+CGDCONT: 1,\"IP\",\"internet\",\"0.0.0.0\",0,0\r\nOK\r\n",
			expected: []string{"AT+CGDCONT?", "+CGDCONT: 1,\"IP\",\"internet\",\"0.0.0.0\",0,0", "OK"},
		},
		{
			name:     "command with CME error",
			input:    "AT+CGACT=1,1\r\n+CME ERROR: 30\r\n",
			expected: []string{"AT+CGACT=1,1", "+CME ERROR: 30"},
		},
		{
			name:     "dial sequence",
			input:    "ATD*99***1#\r\nCONNECT\r\n",
			expected: []string{"ATD*99***1#", "CONNECT"},
		},
		{
			name:     "Rm protocol range query",
			input:    "AT+CRM=?\r\n+CRM: (0-2)\r\nOK\r\n",
			expected: []string{"AT+CRM=?", "+CRM: (0-2)", "OK"},
		},
		{
			name:     "URC mixed with AT response",
			input:    "AT+CGACT?\r\n+CGEV: NW DEACT 1, 0, 0\r\n+CGACT: 1,0\r\nOK\r\n",
			expected: []string{"AT+CGACT?", "+CGEV: NW DEACT 1, 0, 0", "+CGACT: 1,0", "OK"},
		},
		{
			name:     "empty lines handling",
			input:    "\r\n\r\nAT\r\nOK\r\n\r\n",
			expected: []string{"", "", "AT", "OK", ""},
		},
		{
			name:     "multiple PDP deactivation URCs",
			input:    "+CGEV: NW DEACT 1, 0, 0\r\n+CGEV: ME DEACT 1, 0, 0\r\n",
			expected: []string{"+CGEV: NW DEACT 1, 0, 0", "+CGEV: ME DEACT 1, 0, 0"},
		},
		// EOF scenarios - testing atEOF functionality
		{
			name:     "incomplete command at EOF",
			input:    "AT+CGDCONT?\r\n+CGDCONT: 1,\"IP\",\"internet\",\"\",0,0",
			expected: []string{"AT+CGDCONT?", "+CGDCONT: 1,\"IP\",\"internet\",\"\",0,0"},
		},
		{
			name:     "command without CRLF at EOF",
			input:    "AT+CEER",
			expected: []string{"AT+CEER"},
		},
		{
			name:     "response cut off mid-stream at EOF",
			input:    "AT+CGACT?\r\n+CGACT: 1,1\r\nOK\r\n+CGEV: NW DEACT 1, 0, 0",
			expected: []string{"AT+CGACT?", "+CGACT: 1,1", "OK", "+CGEV: NW DEACT 1, 0, 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(at.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %v\nGot: %v",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected at.ResponseType
	}{
		// Final responses
		{name: "OK response", input: "OK", expected: at.TypeFinal},
		{name: "ERROR response", input: "ERROR", expected: at.TypeFinal},
		{name: "NO CARRIER", input: "NO CARRIER", expected: at.TypeFinal},
		{name: "CME error", input: "+CME ERROR: 30", expected: at.TypeFinal},
		{name: "CMS error", input: "+CMS ERROR: 500", expected: at.TypeFinal},

		// URCs
		{name: "network-initiated PDP deactivation", input: "+CGEV: NW DEACT 1, 0, 0", expected: at.TypeURC},
		{name: "modem-initiated PDP deactivation", input: "+CGEV: ME DEACT 1, 0, 0", expected: at.TypeURC},

		// Data responses
		{name: "PDP context line", input: "+CGDCONT: 1,\"IP\",\"internet\",\"\",0,0", expected: at.TypeData},
		{name: "PDP activation state", input: "+CGACT: 1,1", expected: at.TypeData},
		{name: "Rm protocol range", input: "+CRM: (0-2)", expected: at.TypeData},
		{name: "extended error text", input: "+CEER: No service", expected: at.TypeData},
		{name: "echoed command", input: "AT+CGDCONT?", expected: at.TypeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := at.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v for input %q", tt.expected, result, tt.input)
			}
		})
	}
}
