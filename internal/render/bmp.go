package render

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"strconv"

	"golang.org/x/image/bmp"

	"ticksched/internal/sched"
)

// Image geometry.
const (
	bmpWidth     = 800
	bmpTopMargin = 50
	bmpRowHeight = 40
	bmpBarHeight = 30
	bmpLabelY    = 6
)

var (
	gridGray   = color.RGBA{200, 200, 200, 255}
	labelBlack = color.RGBA{0, 0, 0, 255}
)

// digitFont is a 3x5 bitmap per decimal digit; bit 2 is the leftmost column.
var digitFont = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111},
	{0b010, 0b110, 0b010, 0b010, 0b111},
	{0b111, 0b001, 0b111, 0b100, 0b111},
	{0b111, 0b001, 0b111, 0b001, 0b111},
	{0b101, 0b101, 0b111, 0b001, 0b001},
	{0b111, 0b100, 0b111, 0b001, 0b111},
	{0b111, 0b100, 0b111, 0b101, 0b111},
	{0b111, 0b001, 0b010, 0b100, 0b100},
	{0b111, 0b101, 0b111, 0b101, 0b111},
	{0b111, 0b101, 0b111, 0b001, 0b111},
}

// GanttImage draws the timeline as an 800px-wide chart: a vertical grid
// line and numeric label per tick, and one colored bar row per task.
func GanttImage(tasks []sched.Task, timeline []sched.Slice, totalTime int) (*image.RGBA, error) {
	if len(tasks) == 0 || totalTime <= 0 {
		return nil, ErrNothingToRender
	}

	height := bmpRowHeight*len(tasks) + 2*bmpTopMargin
	img := image.NewRGBA(image.Rect(0, 0, bmpWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	scale := max(bmpWidth/(totalTime+1), 1)

	// Labels are thinned out so neighbouring numbers never overlap.
	labelWidth := textWidth(strconv.Itoa(totalTime)) + 2
	labelEvery := max((labelWidth+scale-1)/scale, 1)

	for t := 0; t <= totalTime; t++ {
		x := t * scale
		if x >= bmpWidth {
			break
		}
		for y := 0; y < height; y++ {
			img.SetRGBA(x, y, gridGray)
		}
		if t%labelEvery == 0 {
			drawText(img, strconv.Itoa(t), x, bmpLabelY, labelBlack)
		}
	}

	row := make(map[sched.TaskID]int, len(tasks))
	for i, t := range tasks {
		row[t.ID] = i
	}
	for _, s := range timeline {
		r, ok := row[s.TaskID]
		if !ok {
			continue
		}
		c := color.RGBA{A: 255}
		if red, green, blue, ok := parseHex(s.Color); ok {
			c = color.RGBA{red, green, blue, 255}
		}
		y0 := bmpTopMargin + r*bmpRowHeight
		bar := image.Rect(s.Start*scale, y0, s.End*scale, y0+bmpBarHeight)
		draw.Draw(img, bar.Intersect(img.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
	}
	return img, nil
}

// WriteBMP encodes the GanttImage of the run as a BMP.
func WriteBMP(w io.Writer, tasks []sched.Task, timeline []sched.Slice, totalTime int) error {
	img, err := GanttImage(tasks, timeline, totalTime)
	if err != nil {
		return err
	}
	return bmp.Encode(w, img)
}

func textWidth(s string) int {
	if s == "" {
		return 0
	}
	return len(s)*3 + len(s) - 1
}

// drawText renders digits and '-' centered on xCenter.
func drawText(img *image.RGBA, s string, xCenter, y0 int, c color.RGBA) {
	x := xCenter - textWidth(s)/2
	for _, ch := range s {
		switch {
		case ch >= '0' && ch <= '9':
			glyph := digitFont[ch-'0']
			for ry, bits := range glyph {
				for rx := 0; rx < 3; rx++ {
					if bits&(1<<(2-rx)) != 0 {
						setPixel(img, x+rx, y0+ry, c)
					}
				}
			}
		case ch == '-':
			for dx := 0; dx < 3; dx++ {
				setPixel(img, x+dx, y0+2, c)
			}
		}
		x += 4
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{x, y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
