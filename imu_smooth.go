package vesper

// Smooth applies a single-pole IIR low-pass filter to the
// accelerometer columns of chunk, in place. It is never called by the
// default pipeline. The prototype carried an equivalent pass
// (src/parsers/imu_parser.py's scipy Butterworth filter, applied to
// suppress the sensor wake-up "pop") but never enabled it in the
// shipping path. alpha in (0,1] controls the cutoff: 1 disables
// smoothing entirely.
func Smooth(chunk *ImuChunk, alpha float32) {
	if alpha <= 0 || alpha >= 1 || len(chunk.Samples) == 0 {
		return
	}

	prev := chunk.Samples[0].Acc
	for i := range chunk.Samples {
		for axis := 0; axis < 3; axis++ {
			v := alpha*chunk.Samples[i].Acc[axis] + (1-alpha)*prev[axis]
			prev[axis] = v
			chunk.Samples[i].Acc[axis] = v
		}
	}
}
