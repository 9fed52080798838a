package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/florianilch/authkeep/internal/capability"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		caps capability.Capabilities
		want Kind
	}{
		{
			name: "local storage wins over native",
			caps: capability.Capabilities{WindowExists: true, LocalStorageExists: true, NativeStorageExists: true},
			want: KindLocal,
		},
		{
			name: "window without local storage falls through to native",
			caps: capability.Capabilities{WindowExists: true, NativeStorageExists: true},
			want: KindNative,
		},
		{
			name: "native only",
			caps: capability.Capabilities{NativeStorageExists: true},
			want: KindNative,
		},
		{
			name: "nothing available",
			caps: capability.Capabilities{},
			want: KindNoop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var localCalls, nativeCalls int
			local := func() (WebStorage, error) {
				localCalls++
				return NewMemoryStorage(), nil
			}
			native := func() Provider {
				nativeCalls++
				return NoopProvider{}
			}

			p, kind, err := Select(tt.caps, local, native)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if p == nil {
				t.Fatal("Select() returned nil provider")
			}
			if kind != tt.want {
				t.Errorf("Select() kind = %q, want %q", kind, tt.want)
			}

			wantLocal, wantNative := 0, 0
			switch tt.want {
			case KindLocal:
				wantLocal = 1
			case KindNative:
				wantNative = 1
			}
			if localCalls != wantLocal || nativeCalls != wantNative {
				t.Errorf("constructor calls local=%d native=%d, want local=%d native=%d",
					localCalls, nativeCalls, wantLocal, wantNative)
			}
		})
	}
}

func TestSelectLocalError(t *testing.T) {
	boom := errors.New("boom")
	caps := capability.Capabilities{WindowExists: true, LocalStorageExists: true}

	_, _, err := Select(caps, func() (WebStorage, error) { return nil, boom }, func() Provider { return NoopProvider{} })
	if !errors.Is(err, boom) {
		t.Fatalf("Select() error = %v, want wrapping %v", err, boom)
	}
}

func TestNoopProvider(t *testing.T) {
	ctx := context.Background()
	p := NoopProvider{}

	if err := p.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := p.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Set error = %v, want ErrNotFound", err)
	}
	if err := p.Remove(ctx, "k"); err != nil {
		t.Errorf("Remove() error = %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := p.Set(cancelled, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("Set() with cancelled context error = %v, want context.Canceled", err)
	}
}
