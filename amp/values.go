package amp

// MaxVolume is the top of the device native level scale.
const MaxVolume = 43

// DecodeLevel rescales a device level (0..MaxVolume) to 0..255. The division
// truncates like the amplifier console does; readings above MaxVolume are clamped.
func DecodeLevel(v byte) byte {
	if v > MaxVolume {
		v = MaxVolume
	}
	return byte(uint16(v) * 255 / MaxVolume)
}

// EncodeLevel rescales 0..255 to the device level scale, truncating.
func EncodeLevel(v byte) byte {
	return byte(uint16(v) * MaxVolume / 255)
}

// DecodeVersion combines the hundreds, tens and units bytes of the firmware version.
func DecodeVersion(hundreds, tens, units byte) int {
	return int(units) + 10*int(tens) + 100*int(hundreds)
}
