package vm

// updateSprites implements spec.md §4.6 step 6: derive each active sprite's
// direction from its motion kind, then take one step, applying the
// horizon/edge/block/priority-plane collision rules.
func (vm *VM) updateSprites() {
	ego := &vm.state.Sprites[egoIndex]
	for i := range vm.state.Sprites {
		s := &vm.state.Sprites[i]
		if !s.Active || s.Frozen {
			continue
		}
		s.Moved = false
		if !s.Moving {
			continue
		}

		switch s.Motion {
		case MotionWander:
			vm.stepWander(s)
		case MotionMoveTo:
			vm.stepMoveTo(s)
		case MotionFollowEgo:
			vm.stepFollowEgo(s, ego)
		}

		if s.StepTime > 0 {
			s.stepCounter++
			if s.stepCounter < s.StepTime {
				continue
			}
			s.stepCounter = 0
		}

		vm.stepOnce(s, i == egoIndex)
	}

	vm.state.Vars[varEgoDirection] = uint8(ego.Direction)
}

// stepWander picks a new random direction whenever the sprite has none
// remaining to travel in its current one, per spec.md's wander design
// note ("walks a random number of steps in a random direction, then
// repeats").
func (vm *VM) stepWander(s *Sprite) {
	if s.wanderDistance > 0 {
		s.wanderDistance--
		return
	}
	s.Direction = 1 + vm.rng.Intn(8)
	s.wanderDistance = 6 + vm.rng.Intn(50)
}

// stepMoveTo points the sprite toward its move.obj target, stopping and
// signalling MoveFlag once it arrives.
func (vm *VM) stepMoveTo(s *Sprite) {
	dx := signum(s.TargetX - s.X)
	dy := signum(s.TargetY - s.Y)
	if dx == 0 && dy == 0 {
		s.Moving = false
		s.Motion = MotionNormal
		s.Direction = 0
		if s.savedStep != 0 {
			s.StepSize = s.savedStep
			s.savedStep = 0
		}
		if s.MoveFlag != 0 {
			vm.state.Flags[s.MoveFlag] = true
		}
		return
	}
	s.Direction = direction(dx, dy)
}

// stepFollowEgo points the sprite toward ego, stopping within one step's
// distance and signalling MoveFlag, matching stepMoveTo's arrival rule.
func (vm *VM) stepFollowEgo(s, ego *Sprite) {
	dx := ego.X - s.X
	dy := ego.Y - s.Y
	if abs(dx) <= s.StepSize && abs(dy) <= s.StepSize {
		s.Moving = false
		if s.MoveFlag != 0 {
			vm.state.Flags[s.MoveFlag] = true
		}
		return
	}
	s.Direction = direction(signum(dx), signum(dy))
}

// stepOnce moves the sprite StepSize whole pixels in s.Direction and
// enforces the horizon/screen-edge/blocked-region rules. No sub-pixel
// fraction is accumulated (FracX/FracY are left untouched), and the
// priority plane is not consulted. isEgo controls
// whether an edge hit records the ego-edge variable for room.go's
// next-room snap-to-edge logic.
func (vm *VM) stepOnce(s *Sprite, isEgo bool) {
	dx, dy := deltaFor(s.Direction)
	if dx == 0 && dy == 0 {
		return
	}

	nx := s.X + dx*s.StepSize
	ny := s.Y + dy*s.StepSize

	w, h, _, _, ok := vm.celOf(s)
	if !ok {
		w, h = 0, 0
	}

	if ny < s.Y && !s.IgnoreHorizon && ny-h+1 < vm.state.Horizon {
		ny = vm.state.Horizon + h - 1
	}

	edge := egoEdgeNone
	if nx < 0 {
		nx = 0
		edge = egoEdgeLeft
	} else if nx+w > ScreenWidth {
		nx = ScreenWidth - w
		edge = egoEdgeRight
	}
	if ny-h+1 < 0 {
		ny = h - 1
		if edge == egoEdgeNone {
			edge = egoEdgeTop
		}
	} else if ny >= ScreenHeight {
		ny = ScreenHeight - 1
		if edge == egoEdgeNone {
			edge = egoEdgeBottom
		}
	}

	if s.ObserveBlocks && vm.blocked(nx, ny, w, h) {
		return
	}

	s.X, s.Y = nx, ny
	s.Moved = true

	if isEgo && edge != egoEdgeNone {
		vm.state.Vars[varEgoEdge] = uint8(edge)
	} else if edge != egoEdgeNone {
		vm.state.Vars[varObjectEdge] = uint8(edge)
		vm.state.Vars[varObjectBorder] = uint8(edge)
	}
}

// blocked reports whether the axis-aligned box at (x, y, w, h) intersects
// the active block/unblock rectangle.
func (vm *VM) blocked(x, y, w, h int) bool {
	for _, b := range vm.blocks {
		if x < b.x2 && x+w > b.x1 && y-h+1 < b.y2 && y > b.y1 {
			return true
		}
	}
	return false
}

// updateAnims implements spec.md §4.6 step 7: advance each cycling
// sprite's cel according to its cycle kind, and pick an automatic loop from
// direction for any sprite that has not fixed one explicitly.
func (vm *VM) updateAnims() {
	for i := range vm.state.Sprites {
		s := &vm.state.Sprites[i]
		if !s.Active || s.Frozen {
			continue
		}

		if !s.FixLoop {
			vm.autoLoop(s)
		}

		if !s.Cycling {
			continue
		}
		if s.CycleTime > 0 {
			s.cycleCounter++
			if s.cycleCounter < s.CycleTime {
				continue
			}
			s.cycleCounter = 0
		}

		n := vm.lastCelIndex(s) + 1
		if n <= 0 {
			continue
		}

		switch s.CycleKind {
		case CycleNormal:
			s.Cel = (s.Cel + 1) % n
		case CycleReverse:
			s.Cel--
			if s.Cel < 0 {
				s.Cel = n - 1
			}
		case CycleOneShot:
			if s.Cel+1 >= n {
				s.Cycling = false
				s.OneShotDone = true
				if s.MoveFlag != 0 {
					vm.state.Flags[s.MoveFlag] = true
				}
			} else {
				s.Cel++
			}
		case CycleOneShotReverse:
			if s.Cel <= 0 {
				s.Cycling = false
				s.OneShotDone = true
				if s.MoveFlag != 0 {
					vm.state.Flags[s.MoveFlag] = true
				}
			} else {
				s.Cel--
			}
		}
	}
}

// autoLoop picks a sprite's loop from its current direction on a
// conventional 4-loop view (0 = right, 1 = left, 2 = toward viewer, 3 =
// away), leaving the loop untouched for a stationary sprite or a view that
// does not have enough loops for the chosen one.
func (vm *VM) autoLoop(s *Sprite) {
	res, ok := vm.views[s.ViewNum]
	if !ok || len(res.Loops) == 0 {
		return
	}
	var want int
	switch {
	case s.Direction == 2 || s.Direction == 3 || s.Direction == 4:
		want = 0
	case s.Direction == 6 || s.Direction == 7 || s.Direction == 8:
		want = 1
	case s.Direction == 5:
		want = 2
	case s.Direction == 1:
		want = 3
	default:
		return
	}
	if want < len(res.Loops) {
		s.Loop = want
	}
}
