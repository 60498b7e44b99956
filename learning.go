// Package learning is a small research toolkit for layered feed-forward
// networks: perceptrons and radial-basis-function models trained with
// gradient and competitive rules, with cross-validation harnesses to
// evaluate them.
package learning

import (
	"io"

	"github.com/vpfeiffer/learning/internal/cluster"
	"github.com/vpfeiffer/learning/internal/layer"
	"github.com/vpfeiffer/learning/internal/loss"
	"github.com/vpfeiffer/learning/internal/net"
	"github.com/vpfeiffer/learning/internal/optimize"
	"github.com/vpfeiffer/learning/internal/penalty"
	"github.com/vpfeiffer/learning/internal/rbf"
	"github.com/vpfeiffer/learning/internal/regression"
	"github.com/vpfeiffer/learning/internal/validation"
)

type (
	// Layer is one stage of a feed-forward computation.
	Layer = layer.Layer

	// Network is an ordered composition of layers.
	Network = net.Network

	// Pattern is one (input, target) training example.
	Pattern = net.Pattern

	// TrainConfig controls a network training run.
	TrainConfig = net.TrainConfig

	// Selector picks the patterns visited during one epoch.
	Selector = net.Selector

	// EpochFunc observes training progress once per epoch.
	EpochFunc = net.EpochFunc

	// SOMClusterer is the default self-organizing-map clusterer.
	SOMClusterer = cluster.SOM

	// RegressionModel optimizes the weight matrix of a fixed-form equation.
	RegressionModel = regression.Model

	// RegressionConfig tunes a regression model.
	RegressionConfig = regression.Config

	// RegressionTrainConfig controls a regression training run.
	RegressionTrainConfig = regression.TrainConfig

	// RowSelector picks the sample rows visited during one regression epoch.
	RowSelector = regression.RowSelector

	// RBF is a radial-basis-function model.
	RBF = rbf.RBF

	// RBFConfig tunes an RBF model.
	RBFConfig = rbf.Config

	// RBFTrainConfig controls an RBF training run.
	RBFTrainConfig = rbf.TrainConfig

	// Clusterer is the clustering collaborator an RBF model consumes.
	Clusterer = rbf.Clusterer

	// Optimizer advances a parameter vector one step at a time.
	Optimizer = optimize.Optimizer

	// Problem bundles objective callbacks for an Optimizer.
	Problem = optimize.Problem

	// ErrorFunc measures batch error for optimizer-driven models.
	ErrorFunc = loss.ErrorFunc

	// PenaltyFunc adds a regularization term to a training objective.
	PenaltyFunc = penalty.PenaltyFunc
)

// Layer constructors.

// Dense creates a perceptron layer trained with the delta rule.
func Dense(in, out int, bias bool, learnRate, momentumRate float64) Layer {
	return layer.NewPerceptron(in, out, bias, learnRate, momentumRate)
}

// Output creates a terminal linear layer.
func Output(in, out int, bias bool, learnRate float64) Layer {
	return layer.NewLinear(in, out, bias, learnRate)
}

// Tanh creates a tanh transfer layer.
func Tanh() Layer { return layer.NewSigmoid() }

// Softplus creates a softplus transfer layer.
func Softplus() Layer { return layer.NewReLU() }

// Softmax creates a softmax transfer layer.
func Softmax() Layer { return layer.NewSoftmax() }

// Bias creates a layer appending a constant 1 input.
func Bias(in int) Layer { return layer.NewBias(in) }

// GaussianTransfer creates a gaussian transfer layer.
func GaussianTransfer(variance float64) Layer { return layer.NewGaussian(variance) }

// NewNetwork validates a layer chain and composes it into a network.
func NewNetwork(layers ...Layer) (*Network, error) {
	return net.New(layers...)
}

// LogEpochs returns an EpochFunc that writes progress every interval epochs.
func LogEpochs(w io.Writer, interval int) EpochFunc {
	return net.LogEpochs(w, interval)
}

// MLP creates a multi-layer perceptron with tanh transfers, one layer pair
// per adjacent entry of shape. Only the first layer carries a bias.
func MLP(shape []int, learnRate, momentumRate float64) (*Network, error) {
	layers := []Layer{
		layer.NewPerceptron(shape[0], shape[1], true, learnRate, momentumRate),
		layer.NewSigmoid(),
	}
	for i := 1; i < len(shape)-1; i++ {
		layers = append(layers,
			layer.NewPerceptron(shape[i], shape[i+1], false, learnRate, momentumRate),
			layer.NewSigmoid(),
		)
	}
	return net.New(layers...)
}

// Model constructors.

// LinearRegression creates a linear regression model.
func LinearRegression(attributes, numOutputs int, cfg RegressionConfig) *RegressionModel {
	return regression.NewLinear(attributes, numOutputs, cfg)
}

// LogisticRegression creates a logistic regression model.
func LogisticRegression(attributes, numOutputs int, cfg RegressionConfig) *RegressionModel {
	return regression.NewLogistic(attributes, numOutputs, cfg)
}

// NewRBF creates a radial-basis-function model.
func NewRBF(attributes, numClusters, numOutputs int, cfg RBFConfig) *RBF {
	return rbf.New(attributes, numClusters, numOutputs, cfg)
}

// SOM creates a standalone self-organizing-map clusterer.
func SOM(attributes, numNodes int, moveRate float64, neighborhood int, neighborMoveRate float64) *cluster.SOM {
	return cluster.NewSOM(attributes, numNodes, moveRate, neighborhood, neighborMoveRate)
}

// Optimizers, error and penalty functions.

// SteepestDescent creates a fixed-step gradient descent optimizer.
func SteepestDescent(stepSize float64) Optimizer {
	return optimize.NewSteepestDescent(stepSize)
}

// MomentumDescent creates a gradient descent optimizer with momentum.
func MomentumDescent(stepSize, momentumRate float64) Optimizer {
	return optimize.NewMomentumDescent(stepSize, momentumRate)
}

// MSE is the mean squared error function.
func MSE() ErrorFunc { return loss.MeanSquaredError{} }

// CrossEntropy is the mean negative log likelihood error function.
func CrossEntropy() ErrorFunc { return loss.CrossEntropy{} }

// L1 is the lasso penalty.
func L1(lambda float64) PenaltyFunc { return penalty.L1{Lambda: lambda} }

// L2 is the ridge penalty.
func L2(lambda float64) PenaltyFunc { return penalty.L2{Lambda: lambda} }

// Validation harness.

type (
	// ValidationModel is the surface the harness consumes.
	ValidationModel = validation.Model

	// TrainFunc trains a model on patterns for one validation fold.
	TrainFunc = validation.TrainFunc

	// FoldStats are the statistics collected for one fold.
	FoldStats = validation.FoldStats

	// Summary aggregates fold statistics.
	Summary = validation.Summary

	// BenchmarkStats aggregates repeated cross-validation runs.
	BenchmarkStats = validation.BenchmarkStats
)

// CrossValidate trains and tests a model across k folds.
func CrossValidate(m ValidationModel, patterns []Pattern, folds int, classification bool, train TrainFunc) (*Summary, error) {
	return validation.CrossValidate(m, patterns, folds, validation.Config{Classification: classification}, train)
}

// Benchmark repeats cross validation numRuns times and aggregates run means.
func Benchmark(m ValidationModel, patterns []Pattern, folds, numRuns int, classification bool, train TrainFunc) (*BenchmarkStats, error) {
	return validation.Benchmark(m, patterns, folds, numRuns, validation.Config{Classification: classification}, train)
}
