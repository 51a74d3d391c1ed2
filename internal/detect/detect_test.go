package detect

import (
	"context"
	"errors"
	"testing"
)

func TestSystem_MountType(t *testing.T) {
	sys := NewStatic("linux",
		Partition{Mountpoint: "/", Fstype: "ext4"},
		Partition{Mountpoint: "/mnt/usb", Fstype: "vfat"},
		Partition{Mountpoint: "/mnt/usbkey", Fstype: "exfat"},
		Partition{Mountpoint: "/media/win", Fstype: "NTFS3"},
	)

	tests := []struct {
		path string
		want string
	}{
		{"/home/user/archive", "ext4"},
		{"/mnt/usb", "vfat"},
		{"/mnt/usb/photos/2024", "vfat"},
		{"/mnt/usbkey/x", "exfat"},
		{"/media/win/not/created/yet", "ntfs3"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := sys.MountType(context.Background(), tt.path)
			if err != nil {
				t.Fatalf("MountType() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MountType(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestSystem_NoPartition(t *testing.T) {
	sys := NewStatic("linux", Partition{Mountpoint: "/data", Fstype: "ext4"})

	_, err := sys.MountType(context.Background(), "/home")
	if !errors.Is(err, ErrNoPartition) {
		t.Errorf("MountType() error = %v, want ErrNoPartition", err)
	}
	if got := sys.OperatingSystem(); got != "linux" {
		t.Errorf("OperatingSystem() = %s, want linux", got)
	}
}
