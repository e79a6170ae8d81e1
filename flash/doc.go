// Package flash defines the non-volatile memory driver used to program
// applications and provides a simulated NOR flash for host builds.
//
// # Geometry
//
// Flash is erased in blocks and programmed in pages. A page never spans
// two blocks and a block holds a whole number of pages:
//
//	|<------------- block ------------->|
//	| page | page | page | ... | page |
//
// Erasing sets every byte of a block to ErasedByte (0xFF). Programming can
// only clear bits, so a page must be erased before it is written.
//
// # Busy Polling
//
// EraseBlock and WritePage start an operation and return; the controller
// reports completion through Busy. WaitReady polls until the controller is
// idle. With a zero timeout it polls forever, matching controllers that
// have no failure signal:
//
//	if err := drv.EraseBlock(addr); err != nil {
//	    return err
//	}
//	if err := flash.WaitReady(drv, 0); err != nil {
//	    return err
//	}
package flash
