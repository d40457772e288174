package tiles

import (
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

type glyph struct {
	name string
	fg   display.Color
	rows [8]string
}

var glyphs = map[engine.TileID]glyph{
	Empty: {"empty", display.GroundFG, [8]string{
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	}},
	Ground1: {"ground1", display.GroundFG, [8]string{
		"........",
		".#......",
		"........",
		".....#..",
		"........",
		"..#.....",
		"......#.",
		"........",
	}},
	Ground2: {"ground2", display.GroundFG, [8]string{
		"......#.",
		"........",
		"..#.....",
		"........",
		"....#...",
		"........",
		"#.......",
		"........",
	}},
	Debris1: {"debris1", display.GroundFG, [8]string{
		"........",
		"..##....",
		"..###...",
		"........",
		"....#...",
		".....##.",
		"........",
		".#......",
	}},
	Debris2: {"debris2", display.GroundFG, [8]string{
		"........",
		"......#.",
		".##.....",
		".##.....",
		"........",
		"....###.",
		".....#..",
		"........",
	}},
	Grass1: {"grass1", display.GrassFG, [8]string{
		"........",
		".#...#..",
		".#.#.#..",
		"........",
		"....#..#",
		"..#.#..#",
		"..#.....",
		"........",
	}},
	Grass2: {"grass2", display.GrassFG, [8]string{
		"..#.....",
		"..#..#..",
		".....#..",
		"#.......",
		"#...#...",
		"....#.#.",
		"......#.",
		"........",
	}},
	ExitOpen: {"exit_open", display.ExitFG, [8]string{
		"..####..",
		".#....#.",
		"#......#",
		"#......#",
		"#....#.#",
		"#......#",
		"#......#",
		"########",
	}},
	ExitClosed: {"exit_closed", display.ExitFG, [8]string{
		"..####..",
		".######.",
		"########",
		"########",
		"#####.##",
		"########",
		"########",
		"########",
	}},
	Stone1: {"stone1", display.WallFG, [8]string{
		"........",
		"..####..",
		".######.",
		"###.####",
		"########",
		"####.###",
		".######.",
		"........",
	}},
	Stone2: {"stone2", display.WallFG, [8]string{
		"........",
		".###....",
		"#####.#.",
		"#####.##",
		".###.###",
		"....####",
		".....##.",
		"........",
	}},
	Stone3: {"stone3", display.WallFG, [8]string{
		"...##...",
		"..####..",
		".######.",
		"########",
		"########",
		".######.",
		"..####..",
		"........",
	}},
	Tree: {"tree", display.TreeFG, [8]string{
		"...##...",
		"..####..",
		".######.",
		"########",
		".######.",
		"...##...",
		"...##...",
		"..####..",
	}},
	Trees: {"trees", display.TreeFG, [8]string{
		".#....#.",
		"###..###",
		"###.####",
		".#.#####",
		".#..###.",
		"###..#..",
		".#...#..",
		".#......",
	}},
	Bush: {"bush", display.TreeFG, [8]string{
		"........",
		"........",
		"..##.#..",
		".######.",
		"########",
		"########",
		".######.",
		"........",
	}},
	BrickWall1: {"brick_wall1", display.WallFG, [8]string{
		"########",
		"...#...#",
		"########",
		"#...#...",
		"########",
		"...#...#",
		"########",
		"#...#...",
	}},
	BrickWall2: {"brick_wall2", display.WallFG, [8]string{
		"########",
		".#...#..",
		"########",
		"...#...#",
		"########",
		".#...#..",
		"########",
		"...#...#",
	}},
	BrickWall3: {"brick_wall3", display.WallFG, [8]string{
		"########",
		"#..#..#.",
		"########",
		"..#..#..",
		"########",
		"#..#..#.",
		"########",
		"..#..#..",
	}},
	WizardIdle1: {"wizard_idle1", display.WizardFG, [8]string{
		"...#....",
		"..###..#",
		".#####.#",
		"..#.#..#",
		".#####.#",
		"#.###.##",
		"..###..#",
		".##.##.#",
	}},
	WizardIdle2: {"wizard_idle2", display.WizardFG, [8]string{
		"...#...#",
		"..###..#",
		".#####.#",
		"..#.#..#",
		".#####.#",
		"#.###.##",
		"..###..#",
		".##.##..",
	}},
	WizardUp1: {"wizard_up1", display.WizardFG, [8]string{
		"...#...#",
		"..###..#",
		".#####.#",
		"..###..#",
		".#####.#",
		"#.###.##",
		"..###...",
		".##..#..",
	}},
	WizardUp2: {"wizard_up2", display.WizardFG, [8]string{
		"...#...#",
		"..###..#",
		".#####.#",
		"..###..#",
		".#####.#",
		"#.###.##",
		"..###...",
		"..#..##.",
	}},
	WizardDown1: {"wizard_down1", display.WizardFG, [8]string{
		"...#....",
		"..###...",
		".#####..",
		"..#.#..#",
		".#####.#",
		"#.###.##",
		"..###..#",
		".##..#.#",
	}},
	WizardDown2: {"wizard_down2", display.WizardFG, [8]string{
		"...#....",
		"..###...",
		".#####..",
		"..#.#..#",
		".#####.#",
		"#.###.##",
		"..###..#",
		"..#..###",
	}},
	WizardLeft1: {"wizard_left1", display.WizardFG, [8]string{
		"....#...",
		"...###..",
		"..#####.",
		"..##.#..",
		".######.",
		"#######.",
		"...###..",
		"..##.#..",
	}},
	WizardLeft2: {"wizard_left2", display.WizardFG, [8]string{
		"....#...",
		"...###..",
		"..#####.",
		"..##.#..",
		".######.",
		"#######.",
		"...###..",
		"...#.##.",
	}},
	WizardRight1: {"wizard_right1", display.WizardFG, [8]string{
		"...#....",
		"..###...",
		".#####..",
		"..#.##..",
		".######.",
		".#######",
		"..###...",
		"..#.##..",
	}},
	WizardRight2: {"wizard_right2", display.WizardFG, [8]string{
		"...#....",
		"..###...",
		".#####..",
		"..#.##..",
		".######.",
		".#######",
		"..###...",
		".##.#...",
	}},
	Spell: {"spell", display.SpellFG, [8]string{
		"...#....",
		".#.#.#..",
		"..###...",
		"#######.",
		"..###...",
		".#.#.#..",
		"...#....",
		"........",
	}},
}
