package biometric

import (
	"math"

	"github.com/montanaflynn/stats"
	"gocv.io/x/gocv"
)

// The helpers below compute raw image signals over a grayscale face region.
// Pixels are sampled on a fixed stride so large regions stay cheap and the
// results stay deterministic.

const pixelSampleStep = 2

func samplePixels(img gocv.Mat) []float64 {
	rows := img.Rows()
	cols := img.Cols()
	values := make([]float64, 0, (rows/pixelSampleStep+1)*(cols/pixelSampleStep+1))
	for i := 0; i < rows; i += pixelSampleStep {
		for j := 0; j < cols; j += pixelSampleStep {
			values = append(values, float64(img.GetUCharAt(i, j)))
		}
	}
	return values
}

func sampleDoubles(img gocv.Mat) []float64 {
	rows := img.Rows()
	cols := img.Cols()
	values := make([]float64, 0, (rows/pixelSampleStep+1)*(cols/pixelSampleStep+1))
	for i := 0; i < rows; i += pixelSampleStep {
		for j := 0; j < cols; j += pixelSampleStep {
			values = append(values, img.GetDoubleAt(i, j))
		}
	}
	return values
}

// laplacianVariance measures sharpness: blurred frames and replayed video
// both flatten the second derivative.
func laplacianVariance(gray gocv.Mat) float64 {
	laplacian := gocv.NewMat()
	defer laplacian.Close()
	gocv.Laplacian(gray, &laplacian, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	variance, err := stats.PopulationVariance(sampleDoubles(laplacian))
	if err != nil {
		return 0
	}
	return variance
}

// cannyEdgeDensity is the fraction of edge pixels after Canny. Flat screen
// captures sit well below natural faces.
func cannyEdgeDensity(gray gocv.Mat) float64 {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	rows := edges.Rows()
	cols := edges.Cols()
	if rows == 0 || cols == 0 {
		return 0
	}
	edgePixels := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if edges.GetUCharAt(i, j) > 0 {
				edgePixels++
			}
		}
	}
	return float64(edgePixels) / float64(rows*cols)
}

// intensityStd is the grayscale standard deviation, the contrast signal.
func intensityStd(gray gocv.Mat) float64 {
	std, err := stats.StandardDeviation(samplePixels(gray))
	if err != nil {
		return 0
	}
	return std
}

// sobelGradient returns the mean and standard deviation of the gradient
// magnitude. Printed photos keep mid-range means; masks flatten the spread.
func sobelGradient(gray gocv.Mat) (mean float64, std float64) {
	sobelX := gocv.NewMat()
	sobelY := gocv.NewMat()
	defer sobelX.Close()
	defer sobelY.Close()
	gocv.Sobel(gray, &sobelX, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &sobelY, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	gocv.Magnitude(sobelX, sobelY, &magnitude)

	values := sampleDoubles(magnitude)
	m, err := stats.Mean(values)
	if err != nil {
		return 0, 0
	}
	s, err := stats.StandardDeviation(values)
	if err != nil {
		return m, 0
	}
	return m, s
}

// frequencyStd is the spread of the log-magnitude frequency spectrum.
// Recapture pipelines narrow it through moiré and compression.
func frequencyStd(gray gocv.Mat) float64 {
	floatImg := gocv.NewMat()
	defer floatImg.Close()
	gray.ConvertTo(&floatImg, gocv.MatTypeCV64F)

	dft := gocv.NewMat()
	defer dft.Close()
	gocv.DFT(floatImg, &dft, gocv.DftComplexOutput)

	planes := gocv.Split(dft)
	defer func() {
		for _, p := range planes {
			p.Close()
		}
	}()
	if len(planes) < 2 {
		return 0
	}

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	gocv.Magnitude(planes[0], planes[1], &magnitude)

	values := sampleDoubles(magnitude)
	for i, v := range values {
		values[i] = math.Log1p(v)
	}
	std, err := stats.StandardDeviation(values)
	if err != nil {
		return 0
	}
	return std
}

// saturationVariance measures HSV saturation spread. Screens wash colour out,
// collapsing the variance.
func saturationVariance(faceRegion gocv.Mat) float64 {
	if faceRegion.Channels() < 3 {
		return 0
	}
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(faceRegion, &hsv, gocv.ColorBGRToHSV)

	channels := gocv.Split(hsv)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()
	if len(channels) < 2 {
		return 0
	}
	variance, err := stats.PopulationVariance(samplePixels(channels[1]))
	if err != nil {
		return 0
	}
	return variance
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
