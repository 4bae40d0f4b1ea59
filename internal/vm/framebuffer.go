package vm

import (
	"sort"

	"agivm/internal/pic"
)

func newPlanes() *pic.Planes { return pic.NewPlanes() }

// renderComposite implements spec.md §4.6 step 10: start from the (doubled-width)
// visual plane, overlay every active+visible sprite in ascending priority
// then ascending y where its cel is opaque and its priority is at least the
// picture's priority-plane value underneath, then overlay the text overlay
// wherever it is not the empty sentinel, blanking everything first if the
// VM is in text mode.
func (vm *VM) renderComposite() {
	buf := vm.composite
	if vm.state.TextMode {
		for i := range buf {
			buf[i] = 0
		}
	} else {
		for y := 0; y < ScreenHeight; y++ {
			for x := 0; x < ScreenWidth; x++ {
				v := vm.planes.Visual[y*ScreenWidth+x]
				row := y * FramebufferWidth
				buf[row+x*2] = v
				buf[row+x*2+1] = v
			}
		}
		for y := ScreenHeight; y < FramebufferHeight; y++ {
			row := y * FramebufferWidth
			for x := 0; x < FramebufferWidth; x++ {
				buf[row+x] = 0
			}
		}

		order := vm.drawOrder()
		for _, idx := range order {
			s := &vm.state.Sprites[idx]
			vm.blitSprite(s)
		}
	}

	vm.blitTextOverlay(buf)
}

// drawOrder returns active+visible sprite indices sorted by ascending
// effective priority, then ascending y, spec.md step 10's compositing
// order.
func (vm *VM) drawOrder() []int {
	var order []int
	for i := range vm.state.Sprites {
		s := &vm.state.Sprites[i]
		if s.Active && s.Visible {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := &vm.state.Sprites[order[a]], &vm.state.Sprites[order[b]]
		pa, pb := sa.effectivePriority(), sb.effectivePriority()
		if pa != pb {
			return pa < pb
		}
		return sa.Y < sb.Y
	})
	return order
}

func (vm *VM) blitSprite(s *Sprite) {
	width, height, pixels, transparent, ok := vm.celOf(s)
	if !ok {
		return
	}
	prio := s.effectivePriority()
	top := s.Y - height + 1

	for dy := 0; dy < height; dy++ {
		py := top + dy
		if py < 0 || py >= ScreenHeight {
			continue
		}
		for dx := 0; dx < width; dx++ {
			px := s.X + dx
			if px < 0 || px >= ScreenWidth {
				continue
			}
			colour := pixels[dy*width+dx]
			if colour == transparent {
				continue
			}
			if prio < int(vm.planes.Priority[py*ScreenWidth+px]) {
				continue
			}
			row := py * FramebufferWidth
			vm.composite[row+px*2] = colour
			vm.composite[row+px*2+1] = colour
		}
	}
}
