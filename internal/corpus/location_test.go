package corpus

import "testing"

func TestSplitLocation(t *testing.T) {
	tests := []struct {
		location   string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{location: "samples/clean.bin", wantBucket: "samples", wantKey: "clean.bin"},
		{location: "clean.bin", wantBucket: ".", wantKey: "clean.bin"},
		{location: "file:///srv/samples/clean.bin", wantBucket: "file:///srv/samples", wantKey: "clean.bin"},
		{location: "gs://corpus/go/1.21/clean.bin", wantBucket: "gs://corpus", wantKey: "go/1.21/clean.bin"},
		{location: "s3://corpus/clean.bin?region=us-east-1", wantBucket: "s3://corpus?region=us-east-1", wantKey: "clean.bin"},
		{location: "gs://corpus", wantErr: true},
		{location: "gs://corpus/", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.location, func(t *testing.T) {
			bucket, key, err := splitLocation(test.location)
			if (err != nil) != test.wantErr {
				t.Fatalf("splitLocation() error = %v; wantErr %v", err, test.wantErr)
			}
			if bucket != test.wantBucket || key != test.wantKey {
				t.Errorf("splitLocation() = (%q, %q); want (%q, %q)", bucket, key, test.wantBucket, test.wantKey)
			}
		})
	}
}
