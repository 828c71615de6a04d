package espat_test

import (
	gomock "go.uber.org/mock/gomock"
	"i4.energy/across/wifictl/espat"
)

type MockSequenceBuilder struct {
	transport *espat.MockTransport
	calls     []any
}

func NewMockSequence(transport *espat.MockTransport) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: transport,
		calls:     []any{},
	}
}

func (b *MockSequenceBuilder) exchange(cmd, resp string) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().Write([]byte(cmd+"\r\n")).Return(len(cmd)+2, nil),
		b.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, resp), nil
		}),
	)
	return b
}

// AT answers with the echo still enabled, as after power-on.
func (b *MockSequenceBuilder) AT() *MockSequenceBuilder {
	return b.exchange("AT", "AT\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) EchoOff() *MockSequenceBuilder {
	return b.exchange("ATE0", "ATE0\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) EchoOffFails() *MockSequenceBuilder {
	return b.exchange("ATE0", "ATE0\r\n\r\nERROR\r\n")
}

func (b *MockSequenceBuilder) SysLog() *MockSequenceBuilder {
	return b.exchange("AT+SYSLOG=1", "\r\nOK\r\n")
}

// SysLogUnsupported mimics firmware before 2.0.
func (b *MockSequenceBuilder) SysLogUnsupported() *MockSequenceBuilder {
	return b.exchange("AT+SYSLOG=1", "\r\nERROR\r\n")
}

// NoStationIP answers the address query of a module that has not joined
// a network.
func (b *MockSequenceBuilder) NoStationIP() *MockSequenceBuilder {
	return b.exchange("AT+CIPSTA?", "+CIPSTA:ip:\"0.0.0.0\"\r\n+CIPSTA:gateway:\"0.0.0.0\"\r\n+CIPSTA:netmask:\"0.0.0.0\"\r\n\r\nOK\r\n")
}

// StationIP answers the address query of a module that rejoined its saved
// network on boot.
func (b *MockSequenceBuilder) StationIP(ip string) *MockSequenceBuilder {
	return b.exchange("AT+CIPSTA?", "+CIPSTA:ip:\""+ip+"\"\r\n\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}

func initMockCalls(transport *espat.MockTransport) []any {
	return NewMockSequence(transport).
		AT().
		EchoOff().
		SysLog().
		NoStationIP().
		Build()
}
