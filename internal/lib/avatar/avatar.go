// Package avatar генерирует детерминированные 8-битные аватары из строки-зерна.
//
// Одно и то же зерно всегда дает одинаковое изображение: пиксельная сетка
// и цвет выводятся из SHA-256 хэша зерна. Результат — PNG заданного размера.
package avatar

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

const gridSize = 8

// Generate возвращает PNG-изображение size x size пикселей, построенное из seed.
//
// Левая половина сетки заполняется битами хэша, правая зеркалит левую,
// поэтому аватар всегда симметричен.
func Generate(seed string, size int) ([]byte, error) {
	const op = "avatar.Generate"
	if size < gridSize {
		return nil, fmt.Errorf("%s: size %d is smaller than grid %d", op, size, gridSize)
	}

	sum := sha256.Sum256([]byte(seed))

	fg := color.NRGBA{R: sum[0], G: sum[1], B: sum[2], A: 255}
	bg := color.NRGBA{R: 240, G: 240, B: 240, A: 255}

	var grid [gridSize][gridSize]bool
	for y := range gridSize {
		for x := range gridSize / 2 {
			bit := y*(gridSize/2) + x
			on := sum[3+bit/8]>>(bit%8)&1 == 1
			grid[y][x] = on
			grid[y][gridSize-1-x] = on
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	cell := size / gridSize
	for y := range size {
		for x := range size {
			gy := min(y/cell, gridSize-1)
			gx := min(x/cell, gridSize-1)
			if grid[gy][gx] {
				img.SetNRGBA(x, y, fg)
			} else {
				img.SetNRGBA(x, y, bg)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
