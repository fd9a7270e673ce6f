package iso2022

import "github.com/dxwzv/luit/internal/charset"

// applyEscape executes the control function or charset designation
// named by an ESC sequence's intermediate bytes and final byte, per
// ECMA-35 and as luit.c's parseCallback dispatches on inter[0].
func (s *State) applyEscape(inter []byte, final byte) {
	if len(inter) == 0 {
		switch final {
		case 'n': // LS2
			if s.acceptLockingShift {
				s.gl = g2
			}
		case 'o': // LS3
			if s.acceptLockingShift {
				s.gl = g3
			}
		case 'N': // SS2
			if s.acceptSingleShift {
				s.singleShift = int(g2)
			}
		case 'O': // SS3
			if s.acceptSingleShift {
				s.singleShift = int(g3)
			}
		case '~': // LS1R
			if s.acceptLockingShift {
				s.gr = g1
			}
		case '}': // LS2R
			if s.acceptLockingShift {
				s.gr = g2
			}
		case '|': // LS3R
			if s.acceptLockingShift {
				s.gr = g3
			}
		}
		return
	}

	if !s.acceptSelection {
		return
	}

	switch inter[0] {
	case '(':
		s.g[g0] = charset.GetByDesignation(charset.T94, final)
	case ')':
		s.g[g1] = charset.GetByDesignation(charset.T94, final)
	case '*':
		s.g[g2] = charset.GetByDesignation(charset.T94, final)
	case '+':
		s.g[g3] = charset.GetByDesignation(charset.T94, final)
	case '-':
		s.g[g1] = charset.GetByDesignation(charset.T96, final)
	case '.':
		s.g[g2] = charset.GetByDesignation(charset.T96, final)
	case '/':
		s.g[g3] = charset.GetByDesignation(charset.T96, final)
	case '$':
		if len(inter) == 1 {
			s.g[g0] = charset.GetByDesignation(charset.T9494, final)
			return
		}
		switch inter[1] {
		case '(':
			s.g[g0] = charset.GetByDesignation(charset.T9494, final)
		case ')':
			s.g[g1] = charset.GetByDesignation(charset.T9494, final)
		case '*':
			s.g[g2] = charset.GetByDesignation(charset.T9494, final)
		case '+':
			s.g[g3] = charset.GetByDesignation(charset.T9494, final)
		case '-':
			s.g[g1] = charset.GetByDesignation(charset.T9696, final)
		case '.':
			s.g[g2] = charset.GetByDesignation(charset.T9696, final)
		case '/':
			s.g[g3] = charset.GetByDesignation(charset.T9696, final)
		}
	}
}
