package port_test

import (
	"context"
	"errors"
	"testing"
	"time"

	gomock "go.uber.org/mock/gomock"

	"github.com/vantage-iot/bearer-core/port"
)

func TestMockPort_FlashSurfacesMockedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := port.NewMockPort(ctrl)

	m.EXPECT().Flash(gomock.Any(), time.Second, true).Return(errors.New("dtr stuck"))

	if err := m.Flash(context.Background(), time.Second, true); err == nil {
		t.Fatalf("Flash() error = nil, want the mocked error surfaced to the caller")
	}
}

func TestMockPort_ReopenSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := port.NewMockPort(ctrl)

	gomock.InOrder(
		m.EXPECT().SetInitSequenceEnabled(false),
		m.EXPECT().Reopen(gomock.Any(), time.Second).Return(nil),
		m.EXPECT().SetInitSequenceEnabled(true),
	)

	m.SetInitSequenceEnabled(false)
	if err := m.Reopen(context.Background(), time.Second); err != nil {
		t.Fatalf("Reopen() error = %v", err)
	}
	m.SetInitSequenceEnabled(true)
}
