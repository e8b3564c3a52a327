package scpi

// IEEE 488.2 status byte / event status bit positions.
const (
	esrBitOPC = 1 << 0
	esrBitQYE = 1 << 2
	esrBitDDE = 1 << 3
	esrBitEXE = 1 << 4
	esrBitCME = 1 << 5

	stbBitEAV = 1 << 2
	stbBitMAV = 1 << 4
	stbBitESB = 1 << 5
	stbBitMSS = 1 << 6
)

// StatusRegister implements the IEEE 488.2 status-reporting model: the
// Event Status Register/Enable (ESR/ESE) and Status Byte/Service Request
// Enable (STB/SRE).
type StatusRegister struct {
	esr uint8
	ese uint8
	sre uint8
}

// SetOPC sets the ESR's Operation Complete bit.
func (s *StatusRegister) SetOPC() { s.esr |= esrBitOPC }

// SetErrorByCode ORs the ESR bit corresponding to code's error class into
// the event status register. Codes outside the four standard ranges (and
// NoError) leave the ESR untouched.
func (s *StatusRegister) SetErrorByCode(code Code) {
	switch {
	case IsCommandError(code):
		s.esr |= esrBitCME
	case IsExecutionError(code):
		s.esr |= esrBitEXE
	case IsDeviceError(code):
		s.esr |= esrBitDDE
	case IsQueryError(code):
		s.esr |= esrBitQYE
	}
}

// ReadAndClearESR returns the current ESR value and clears it, matching
// "*ESR?" semantics.
func (s *StatusRegister) ReadAndClearESR() uint8 {
	v := s.esr
	s.esr = 0
	return v
}

func (s *StatusRegister) SetESE(mask uint8) { s.ese = mask }
func (s *StatusRegister) GetESE() uint8     { return s.ese }
func (s *StatusRegister) SetSRE(mask uint8) { s.sre = mask & 0xFF }
func (s *StatusRegister) GetSRE() uint8     { return s.sre }

// ClearForCLS implements "*CLS": clears the ESR only, leaving ESE/SRE
// (the enable masks) untouched.
func (s *StatusRegister) ClearForCLS() { s.esr = 0 }

// ComputeSTB computes the status byte, given whether the error queue is
// non-empty (EAV) and whether a response is available to read (MAV, only
// meaningful in buffered/non-callback output mode). ESB (bit 5) is
// computed from ESR&ESE before MSS/RQS (bit 6), which is derived last
// from the scratch STB value ANDed with SRE — self-referentially safe
// since MSS doesn't feed back into its own computation.
func (s *StatusRegister) ComputeSTB(errorQueueNotEmpty, messageAvailable bool) uint8 {
	var stb uint8
	if errorQueueNotEmpty {
		stb |= stbBitEAV
	}
	if messageAvailable {
		stb |= stbBitMAV
	}
	if s.esr&s.ese != 0 {
		stb |= stbBitESB
	}
	if stb&s.sre != 0 {
		stb |= stbBitMSS
	}
	return stb
}
